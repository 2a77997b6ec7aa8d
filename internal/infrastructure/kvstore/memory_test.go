package kvstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fx-gateway/internal/infrastructure/kvstore"
)

func TestMemoryRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := kvstore.NewMemory(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.SetString(ctx, "k", "v", now.Add(time.Minute)))

	got, err := store.GetString(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestMemoryMissingKey(t *testing.T) {
	store := kvstore.NewMemory(nil)

	_, err := store.GetString(context.Background(), "absent")
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := kvstore.NewMemory(func() time.Time { return current })
	ctx := context.Background()

	require.NoError(t, store.SetString(ctx, "k", "v", current.Add(time.Minute)))

	current = current.Add(2 * time.Minute)

	_, err := store.GetString(ctx, "k")
	require.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestMemoryRemoveIsIdempotent(t *testing.T) {
	store := kvstore.NewMemory(nil)
	ctx := context.Background()

	require.NoError(t, store.SetString(ctx, "k", "v", time.Now().Add(time.Minute)))
	require.NoError(t, store.Remove(ctx, "k"))
	require.NoError(t, store.Remove(ctx, "k"))
	require.Equal(t, 0, store.Len())
}
