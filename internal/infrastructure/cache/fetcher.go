// Package cache implements the cache-aside layer in front of the upstream
// provider. Values carry their own absolute expiry; the backing store's
// native TTL mirrors it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fx-gateway/internal/infrastructure/kvstore"
	"fx-gateway/internal/infrastructure/metrics"
)

// Expirable is the capability a cached payload must declare.
type Expirable interface {
	Expiry() time.Time
}

// Outcome distinguishes the three observable results of a lookup.
type Outcome string

const (
	OutcomeHit     Outcome = "hit"
	OutcomeMiss    Outcome = "miss"
	OutcomeExpired Outcome = "expired"
)

// Fetcher wraps a key-value store with expiry-aware reads.
type Fetcher struct {
	store kvstore.Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewFetcher creates a fetcher. A nil clock defaults to time.Now.
func NewFetcher(store kvstore.Store, log zerolog.Logger, now func() time.Time) *Fetcher {
	if now == nil {
		now = time.Now
	}
	return &Fetcher{
		store: store,
		now:   now,
		log:   log.With().Str("component", "cache-aside").Logger(),
	}
}

// Lookup reads and deserializes a cached value. A stored value whose expiry
// is in the past is reported as OutcomeExpired and not returned; the stale
// entry is left in place for the next Save to overwrite.
func Lookup[T Expirable](ctx context.Context, f *Fetcher, key string) (T, Outcome, error) {
	var zero T

	raw, err := f.store.GetString(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			f.log.Debug().Str("key", key).Msg("cache miss")
			metrics.RecordCacheLookup(string(OutcomeMiss))
			return zero, OutcomeMiss, nil
		}
		return zero, OutcomeMiss, fmt.Errorf("cache lookup failed: %w", err)
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return zero, OutcomeMiss, fmt.Errorf("cache entry corrupt for key %s: %w", key, err)
	}

	if !value.Expiry().After(f.now()) {
		f.log.Debug().Str("key", key).Time("expired_at", value.Expiry()).Msg("cache hit on expired entry")
		metrics.RecordCacheLookup(string(OutcomeExpired))
		return zero, OutcomeExpired, nil
	}

	f.log.Debug().Str("key", key).Msg("cache hit")
	metrics.RecordCacheLookup(string(OutcomeHit))
	return value, OutcomeHit, nil
}

// Save serializes a value and writes it with the value's own absolute expiry.
func Save[T Expirable](ctx context.Context, f *Fetcher, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	if err := f.store.SetString(ctx, key, string(raw), value.Expiry()); err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}
