// Package common defines shared constants and sentinel errors used across
// the CartSync client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Session errors.
	ErrNotAuthenticated = errors.New("please log in to add items to cart")

	// Persistence errors (recovered locally, never fatal).
	ErrMalformedPersistedState = errors.New("malformed persisted session")

	// Cart errors.
	ErrEmptyCart = errors.New("cart is empty")
)
