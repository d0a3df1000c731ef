package token

import (
	"context"
	"errors"
	"time"
)

// Key is the shared cache key holding the current bearer token.
const Key = "oidc_token"

// ErrNotFound is returned when no token is cached or the cached entry expired.
var ErrNotFound = errors.New("token not found")

// Store defines the shared credential cache operations.
//
// The backing store enforces the validity window through its own expiration
// mechanism: an entry simply ceases to exist after validFor elapses.
type Store interface {
	// Get returns the cached token or ErrNotFound on a miss.
	Get(ctx context.Context) (string, error)
	// Set stores the token with the provided validity window.
	Set(ctx context.Context, token string, validFor time.Duration) error
}
