// Package kvstore abstracts the key-value store backing the cache and the
// token store.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent from the store.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the key-value contract consumed by the cache-aside fetcher and the
// token store. Implementations provide per-key atomicity; no multi-key
// transactions are assumed.
type Store interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key string, value string, expiresAt time.Time) error
	Remove(ctx context.Context, key string) error
}
