package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
)

// fakeAuthAPI implements client.AuthAPI for unit tests.
type fakeAuthAPI struct {
	LoginRet    models.User
	LoginErr    error
	RegisterRet json.RawMessage
	RegisterErr error

	LoginCalls    int
	RegisterCalls int
	LastCreds     models.Credentials
	LastReg       models.Registration
}

func (f *fakeAuthAPI) Login(_ context.Context, creds models.Credentials) (models.User, error) {
	f.LoginCalls++
	f.LastCreds = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, reg models.Registration) (json.RawMessage, error) {
	f.RegisterCalls++
	f.LastReg = reg
	return f.RegisterRet, f.RegisterErr
}

// fakeCartAPI implements client.CartAPI. Each hook may block to let tests
// control the order in which responses arrive.
type fakeCartAPI struct {
	GetCartFn  func(ctx context.Context, userID int64) (models.Cart, error)
	AddFn      func(ctx context.Context, userID, productID int64, quantity int) error
	RemoveFn   func(ctx context.Context, itemID int64) error
	UpdateFn   func(ctx context.Context, itemID int64, quantity int) error
	PurchaseFn func(ctx context.Context, userID int64) error

	mu    sync.Mutex
	calls []string
}

func (f *fakeCartAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

// Calls returns the API methods invoked so far, in order.
func (f *fakeCartAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCartAPI) GetCart(ctx context.Context, userID int64) (models.Cart, error) {
	f.record("get")
	if f.GetCartFn == nil {
		return models.Cart{}, nil
	}
	return f.GetCartFn(ctx, userID)
}

func (f *fakeCartAPI) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	f.record("add")
	if f.AddFn == nil {
		return nil
	}
	return f.AddFn(ctx, userID, productID, quantity)
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, itemID int64) error {
	f.record("remove")
	if f.RemoveFn == nil {
		return nil
	}
	return f.RemoveFn(ctx, itemID)
}

func (f *fakeCartAPI) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	f.record("update")
	if f.UpdateFn == nil {
		return nil
	}
	return f.UpdateFn(ctx, itemID, quantity)
}

func (f *fakeCartAPI) Purchase(ctx context.Context, userID int64) error {
	f.record("purchase")
	if f.PurchaseFn == nil {
		return nil
	}
	return f.PurchaseFn(ctx, userID)
}

func cartOf(ids ...int64) models.Cart {
	var c models.Cart
	for _, id := range ids {
		c.Items = append(c.Items, models.CartItem{
			ID:       id,
			Product:  models.Product{ID: id * 10, Price: 1.5},
			Quantity: 1,
		})
	}
	return c
}
