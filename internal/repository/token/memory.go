package token

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with TTL semantics matching the Redis
// implementation. It backs tests and single-instance deployments that do not
// need a shared cache.
type MemoryStore struct {
	// mu protects token and expiresAt.
	mu sync.Mutex
	// token is the cached value.
	token string
	// expiresAt is when the cached value stops being returned.
	expiresAt time.Time
	// now returns the current time; replaceable in tests.
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock replaces the store's time source. Intended for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

// Get returns the cached token or ErrNotFound when absent or expired.
func (s *MemoryStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || !s.now().Before(s.expiresAt) {
		return "", ErrNotFound
	}

	return s.token, nil
}

// Set stores the token with the provided validity window.
func (s *MemoryStore) Set(_ context.Context, token string, validFor time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expiresAt = s.now().Add(validFor)

	return nil
}
