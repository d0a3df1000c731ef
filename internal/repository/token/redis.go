package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by a shared Redis instance, letting multiple
// relay instances reuse one token. Get and Set are atomic on the Redis side,
// so no additional locking is required; concurrent refreshes may race and the
// last write wins.
type RedisStore struct {
	// client is the underlying Redis client.
	client redis.UniversalClient
}

// NewRedisStore creates a Store on top of the provided Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient builds a Redis client from connection parameters and
// verifies connectivity with a bounded ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return client, nil
}

// Get returns the cached token or ErrNotFound when the key is absent.
func (s *RedisStore) Get(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, Key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("get token: %w", err)
	}

	return value, nil
}

// Set stores the token; Redis expires the entry after validFor.
func (s *RedisStore) Set(ctx context.Context, token string, validFor time.Duration) error {
	if err := s.client.Set(ctx, Key, token, validFor).Err(); err != nil {
		return fmt.Errorf("set token: %w", err)
	}

	return nil
}
