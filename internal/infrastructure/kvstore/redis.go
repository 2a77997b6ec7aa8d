package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis implements Store on top of a single Redis instance.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
}

var _ Store = (*Redis)(nil)

// NewRedis connects to Redis using a URL and verifies the connection.
func NewRedis(redisURL string, log zerolog.Logger) (*Redis, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", opts.Addr).Msg("connected to Redis key-value store")

	return &Redis{
		client: client,
		log:    log.With().Str("component", "kvstore").Logger(),
	}, nil
}

// GetString fetches a key. An absent key maps to ErrNotFound so callers can
// treat a miss as a normal condition.
func (r *Redis) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get value from store: %w", err)
	}
	return val, nil
}

// SetString writes a key with an absolute expiry. The store's native TTL
// mirrors the application-level expiry.
func (r *Redis) SetString(ctx context.Context, key string, value string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Entry would be born expired; skip the write.
		return nil
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Remove deletes a key. Removing an absent key is not an error.
func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// HealthCheck pings the backing Redis.
func (r *Redis) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
