package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
)

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, reg models.Registration) (json.RawMessage, error)
}

// CartAPI is the remote cart surface. Quantities and ids are passed through
// as given; validation is the caller's job.
type CartAPI interface {
	GetCart(ctx context.Context, userID int64) (models.Cart, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, itemID int64) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	Purchase(ctx context.Context, userID int64) error
}

// Client is the full remote contract used by the CartSync client.
type Client interface {
	AuthAPI
	CartAPI
	Close() error
}
