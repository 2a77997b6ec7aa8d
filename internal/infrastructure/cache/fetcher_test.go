package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fx-gateway/internal/infrastructure/cache"
	"fx-gateway/internal/infrastructure/kvstore"
)

type testDoc struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (d testDoc) Expiry() time.Time {
	return d.ExpiresAt
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLookupMiss(t *testing.T) {
	store := kvstore.NewMemory(func() time.Time { return baseTime })
	fetcher := cache.NewFetcher(store, zerolog.Nop(), func() time.Time { return baseTime })

	_, outcome, err := cache.Lookup[testDoc](context.Background(), fetcher, "absent")
	require.NoError(t, err)
	require.Equal(t, cache.OutcomeMiss, outcome)
}

func TestSaveThenLookupHit(t *testing.T) {
	store := kvstore.NewMemory(func() time.Time { return baseTime })
	fetcher := cache.NewFetcher(store, zerolog.Nop(), func() time.Time { return baseTime })

	doc := testDoc{Value: "cached", ExpiresAt: baseTime.Add(30 * time.Minute)}
	require.NoError(t, cache.Save(context.Background(), fetcher, "key", doc))

	got, outcome, err := cache.Lookup[testDoc](context.Background(), fetcher, "key")
	require.NoError(t, err)
	require.Equal(t, cache.OutcomeHit, outcome)
	require.Equal(t, "cached", got.Value)
}

func TestLookupExpiredPayload(t *testing.T) {
	// The stored entry outlives the payload's own expiry, as happens when the
	// backing store's TTL lags the application clock.
	store := kvstore.NewMemory(func() time.Time { return baseTime })
	fetcher := cache.NewFetcher(store, zerolog.Nop(), func() time.Time { return baseTime })

	stale := testDoc{Value: "stale", ExpiresAt: baseTime.Add(-time.Minute)}
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, store.SetString(context.Background(), "key", string(raw), baseTime.Add(time.Hour)))

	_, outcome, err := cache.Lookup[testDoc](context.Background(), fetcher, "key")
	require.NoError(t, err)
	require.Equal(t, cache.OutcomeExpired, outcome)

	// The stale entry stays in place; the next Save overwrites it.
	require.Equal(t, 1, store.Len())
}

func TestLookupCorruptEntry(t *testing.T) {
	store := kvstore.NewMemory(func() time.Time { return baseTime })
	fetcher := cache.NewFetcher(store, zerolog.Nop(), func() time.Time { return baseTime })

	require.NoError(t, store.SetString(context.Background(), "key", "not json", baseTime.Add(time.Hour)))

	_, _, err := cache.Lookup[testDoc](context.Background(), fetcher, "key")
	require.Error(t, err)
}

func TestSavedExpiredValueIsNeverServed(t *testing.T) {
	store := kvstore.NewMemory(func() time.Time { return baseTime })
	fetcher := cache.NewFetcher(store, zerolog.Nop(), func() time.Time { return baseTime })

	doc := testDoc{Value: "born dead", ExpiresAt: baseTime.Add(-time.Second)}
	require.NoError(t, cache.Save(context.Background(), fetcher, "key", doc))

	_, outcome, err := cache.Lookup[testDoc](context.Background(), fetcher, "key")
	require.NoError(t, err)
	require.Equal(t, cache.OutcomeMiss, outcome)
}
