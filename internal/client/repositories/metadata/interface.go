// Package metadata provides the small key/value store that holds client
// state between runs. The only state persisted today is the session user.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value store. Get on a missing key
// returns (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Swap stores value under key and returns the previous value, or nil
	// when the key was absent.
	Swap(ctx context.Context, key string, value []byte) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// List and Clear cover every key the repository owns.
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
