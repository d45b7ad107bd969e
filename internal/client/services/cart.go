package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/client/client"
	"github.com/dmitrijs2005/cartsync/internal/client/metrics"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

const (
	opAdd      = "add"
	opRemove   = "remove"
	opUpdate   = "update"
	opCheckout = "checkout"
)

// CartService keeps an in-memory mirror of one user's server-side cart.
//
// Every successful mutation is followed by a full reload; the mirror is
// never patched locally. Each reload takes a generation number when it is
// issued and its result is applied only if no newer reload was issued in
// the meantime, so the mirror always reflects the most recently issued
// fetch regardless of arrival order.
//
// The mirror is owned by the user of the last load. Clear and a load for
// another user start a new epoch; mutations that started in an older epoch,
// or for a user who does not own the mirror, do not resync when they finish.
// After Clear a mutation resyncs only once LoadCart or BeginLoad has bound
// the mirror to its user again; only a fresh service adopts the first
// mutating user.
type CartService struct {
	api     client.CartAPI
	metrics *metrics.Sync
	log     logging.Logger

	mu       sync.Mutex
	cart     models.Cart
	state    models.SyncState
	gen      uint64
	epoch    uint64
	owner    int64
	inFlight int
	lastErr  error
}

// NewCartService returns a synchronizer with an empty, idle mirror.
// m may be nil.
func NewCartService(api client.CartAPI, m *metrics.Sync, log logging.Logger) *CartService {
	return &CartService{
		api:     api,
		metrics: m,
		log:     log,
		state:   models.IdleState(),
	}
}

// Cart returns a copy of the mirror.
func (c *CartService) Cart() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Clone()
}

func (c *CartService) State() models.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Clear empties the mirror without a network call. Loads and mutations
// still in flight can no longer touch it.
func (c *CartService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *CartService) clearLocked() {
	c.cart = models.Cart{}
	c.owner = 0
	c.epoch++
	c.gen++
	c.lastErr = nil
	if c.inFlight == 0 {
		c.state = models.IdleState()
	}
}

// LoadCart fetches userID's cart and returns the mirror afterwards. A zero
// userID clears the mirror. When the fetch fails the mirror is emptied and
// the failure is recorded in State.
func (c *CartService) LoadCart(ctx context.Context, userID int64) models.Cart {
	return c.BeginLoad(userID)(ctx)
}

// BeginLoad issues a load generation for userID without blocking and
// returns the function that performs the fetch. Issuing and fetching are
// split so a caller can take the generation while holding its own lock;
// anything that clears the mirror in between makes the fetch stale.
func (c *CartService) BeginLoad(userID int64) func(ctx context.Context) models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()

	if userID == 0 {
		c.clearLocked()
		return func(context.Context) models.Cart { return models.Cart{} }
	}
	if c.owner != userID {
		c.owner = userID
		c.epoch++
	}
	c.begin()
	gen := c.issue()

	return func(ctx context.Context) models.Cart {
		return c.fetch(ctx, userID, gen)
	}
}

// AddItem adds quantity units of product to userID's cart, then resyncs.
// Without a user it fails with common.ErrNotAuthenticated. A remote failure
// is recorded in State, not returned.
func (c *CartService) AddItem(ctx context.Context, userID int64, product models.Product, quantity int) (models.Cart, error) {
	if userID == 0 {
		return c.Cart(), common.ErrNotAuthenticated
	}
	if quantity <= 0 {
		quantity = 1
	}
	cart, _ := c.mutate(ctx, opAdd, userID, func(ctx context.Context) error {
		return c.api.AddItem(ctx, userID, product.ID, quantity)
	})
	return cart, nil
}

// RemoveItem deletes one cart line, then resyncs. Without a user it does
// nothing.
func (c *CartService) RemoveItem(ctx context.Context, userID, itemID int64) models.Cart {
	if userID == 0 {
		return c.Cart()
	}
	cart, _ := c.mutate(ctx, opRemove, userID, func(ctx context.Context) error {
		return c.api.RemoveItem(ctx, itemID)
	})
	return cart
}

// UpdateQuantity sets a line's quantity, then resyncs. A quantity of zero
// or less removes the line.
func (c *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (models.Cart, error) {
	if userID == 0 {
		return c.Cart(), common.ErrNotAuthenticated
	}
	if quantity <= 0 {
		return c.RemoveItem(ctx, userID, itemID), nil
	}
	cart, _ := c.mutate(ctx, opUpdate, userID, func(ctx context.Context) error {
		return c.api.UpdateItemQuantity(ctx, itemID, quantity)
	})
	return cart, nil
}

// Checkout purchases the mirrored cart, then resyncs. Unlike the other
// mutations a remote failure is returned as well as recorded.
func (c *CartService) Checkout(ctx context.Context, userID int64) (models.Cart, error) {
	if userID == 0 {
		return c.Cart(), common.ErrNotAuthenticated
	}
	if cart := c.Cart(); cart.IsEmpty() {
		return cart, common.ErrEmptyCart
	}
	cart, err := c.mutate(ctx, opCheckout, userID, func(ctx context.Context) error {
		return c.api.Purchase(ctx, userID)
	})
	if err != nil {
		return cart, fmt.Errorf("checkout: %w", err)
	}
	return cart, nil
}

// mutate runs call as one operation and, when it succeeds and the mirror
// still belongs to userID in the same epoch, chains a reload into it.
func (c *CartService) mutate(ctx context.Context, op string, userID int64, call func(ctx context.Context) error) (models.Cart, error) {
	c.mu.Lock()
	// A fresh mirror is adopted by the first mutation; one that was
	// cleared waits for the next load to be bound again.
	if c.owner == 0 && c.epoch == 0 {
		c.owner = userID
		c.epoch++
	}
	epoch := c.epoch
	owned := c.owner == userID
	c.begin()
	c.mu.Unlock()

	err := call(ctx)

	c.mu.Lock()
	current := owned && epoch == c.epoch
	if err != nil {
		c.metrics.ObserveMutation(op, metrics.ResultError)
		c.log.Warn(ctx, "cart mutation failed", "op", op, "user_id", userID, "error", err)
		c.settle(err, current)
		cart := c.cart.Clone()
		c.mu.Unlock()
		return cart, err
	}
	c.metrics.ObserveMutation(op, metrics.ResultOK)

	if !current {
		c.log.Debug(ctx, "skipping resync, cart changed hands", "op", op, "user_id", userID)
		c.settle(nil, false)
		cart := c.cart.Clone()
		c.mu.Unlock()
		return cart, nil
	}
	gen := c.issue()
	c.mu.Unlock()

	return c.fetch(ctx, userID, gen), nil
}

// fetch performs the GET for an issued generation and settles the
// operation that issued it.
func (c *CartService) fetch(ctx context.Context, userID int64, gen uint64) models.Cart {
	start := time.Now()
	cart, err := c.api.GetCart(ctx, userID)
	elapsed := time.Since(start)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.metrics.ObserveLoad(metrics.ResultStale, elapsed)
		c.log.Debug(ctx, "discarding stale cart", "user_id", userID, "generation", gen, "current", c.gen)
		c.settle(nil, false)
		return c.cart.Clone()
	}

	if err != nil {
		c.metrics.ObserveLoad(metrics.ResultError, elapsed)
		c.log.Warn(ctx, "cart load failed", "user_id", userID, "error", err)
		c.cart = models.Cart{}
		c.settle(err, true)
		return models.Cart{}
	}

	c.metrics.ObserveLoad(metrics.ResultOK, elapsed)
	c.cart = cart.Clone()
	c.settle(nil, true)
	return c.cart.Clone()
}

// issue takes the next generation. Caller holds mu.
func (c *CartService) issue() uint64 {
	c.gen++
	return c.gen
}

// begin marks a new operation. Caller holds mu.
func (c *CartService) begin() {
	c.inFlight++
	c.metrics.Begin()
	c.state = models.LoadingState()
}

// settle ends an operation. When counts is set err becomes the latest
// outcome; once nothing is in flight State reflects that outcome.
// Caller holds mu.
func (c *CartService) settle(err error, counts bool) {
	c.inFlight--
	c.metrics.End()
	if counts {
		c.lastErr = err
	}
	if c.inFlight > 0 {
		return
	}
	if c.lastErr != nil {
		c.state = models.ErrorState(failureReason(c.lastErr))
		return
	}
	c.state = models.IdleState()
}

// failureReason prefers the server's own text over the wrapped error.
func failureReason(err error) string {
	var se *client.StatusError
	if errors.As(err, &se) && len(se.Body) > 0 {
		if msg, _ := payloadMessage(se.Body); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(err.Error())
}
