// Package coordinator ties the session and the cart mirror together.
//
// The Coordinator is the only writer of the session. Every session
// transition is followed by an explicit cart action: login loads the new
// user's cart, logout clears it. Readers that need a consistent view of
// both use Snapshot.
package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/services"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

// SessionStore persists the authenticated user.
type SessionStore interface {
	Restore(ctx context.Context) (*models.User, error)
	Persist(ctx context.Context, u models.User) error
	Clear(ctx context.Context) error
}

// CartSynchronizer is the cart mirror the Coordinator drives.
type CartSynchronizer interface {
	BeginLoad(userID int64) func(ctx context.Context) models.Cart
	AddItem(ctx context.Context, userID int64, product models.Product, quantity int) (models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID int64) models.Cart
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (models.Cart, error)
	Checkout(ctx context.Context, userID int64) (models.Cart, error)
	Clear()
	Cart() models.Cart
	State() models.SyncState
}

// Snapshot is a consistent view of session and cart.
type Snapshot struct {
	User  *models.User
	Cart  models.Cart
	State models.SyncState
}

// LoggedIn reports whether a user is present.
func (s Snapshot) LoggedIn() bool { return s.User != nil }

type Coordinator struct {
	store SessionStore
	auth  services.AuthService
	carts CartSynchronizer
	log   logging.Logger

	mu   sync.RWMutex
	user *models.User
}

// New restores the persisted session and, when a user comes back, loads
// their cart before returning. A failing store is logged and treated as
// anonymous.
func New(ctx context.Context, store SessionStore, auth services.AuthService, carts CartSynchronizer, log logging.Logger) *Coordinator {
	c := &Coordinator{store: store, auth: auth, carts: carts, log: log}

	u, err := store.Restore(ctx)
	if err != nil {
		log.Warn(ctx, "session restore failed, starting anonymous", "error", err)
		u = nil
	}

	if u == nil {
		return c
	}

	c.mu.Lock()
	c.user = u
	load := carts.BeginLoad(u.ID)
	c.mu.Unlock()

	log.Info(ctx, "session restored", "user_id", u.ID)
	load(ctx)
	return c
}

// Login authenticates and switches the session to the returned user. On
// failure the current session is left as it was. The cart load is issued
// under the lock so a Logout racing with it always wins.
func (c *Coordinator) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	u, err := c.auth.Login(ctx, creds)
	if err != nil {
		return models.User{}, err
	}

	c.mu.Lock()
	if err := c.store.Persist(ctx, u); err != nil {
		c.mu.Unlock()
		return models.User{}, fmt.Errorf("save session: %w", err)
	}
	c.carts.Clear()
	c.user = &u
	load := c.carts.BeginLoad(u.ID)
	c.mu.Unlock()

	c.log.Info(ctx, "logged in", "user_id", u.ID, "username", u.Username)
	load(ctx)
	return u, nil
}

// Logout drops the session and the cart mirror. It never fails and may be
// called any number of times.
func (c *Coordinator) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.carts.Clear()
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear persisted session", "error", err)
	}
	if c.user != nil {
		c.log.Info(ctx, "logged out", "user_id", c.user.ID)
	}
	c.user = nil
}

// Signup registers an account without touching the session.
func (c *Coordinator) Signup(ctx context.Context, reg models.Registration) (models.SignupResult, error) {
	return c.auth.Signup(ctx, reg)
}

func (c *Coordinator) userID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return 0
	}
	return c.user.ID
}

func (c *Coordinator) AddToCart(ctx context.Context, product models.Product, quantity int) (models.Cart, error) {
	return c.carts.AddItem(ctx, c.userID(), product, quantity)
}

func (c *Coordinator) RemoveFromCart(ctx context.Context, itemID int64) models.Cart {
	return c.carts.RemoveItem(ctx, c.userID(), itemID)
}

func (c *Coordinator) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (models.Cart, error) {
	return c.carts.UpdateQuantity(ctx, c.userID(), itemID, quantity)
}

func (c *Coordinator) Checkout(ctx context.Context) (models.Cart, error) {
	return c.carts.Checkout(ctx, c.userID())
}

// Refresh reloads the current user's cart.
func (c *Coordinator) Refresh(ctx context.Context) (models.Cart, error) {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return models.Cart{}, common.ErrNotAuthenticated
	}
	load := c.carts.BeginLoad(c.user.ID)
	c.mu.Unlock()

	return load(ctx), nil
}

// Session returns a copy of the current user, or nil.
func (c *Coordinator) Session() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Coordinator) Cart() models.Cart { return c.carts.Cart() }

func (c *Coordinator) SyncState() models.SyncState { return c.carts.State() }

// Snapshot reads session, cart and sync state under one lock so a logout
// or login cannot be observed halfway.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var u *models.User
	if c.user != nil {
		cp := *c.user
		u = &cp
	}
	return Snapshot{User: u, Cart: c.carts.Cart(), State: c.carts.State()}
}
