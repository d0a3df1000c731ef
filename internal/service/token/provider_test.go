package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	repo "github.com/oshokin/alert-relay/internal/repository/token"
)

// newIdentityProvider returns a test server mimicking the token endpoint and
// a counter of exchanges it served.
func newIdentityProvider(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var exchanges atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, tokenEndpointPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		require.Equal(t, "relay", r.PostForm.Get("client_id"))

		exchanges.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(server.Close)

	return server, &exchanges
}

// testCredentials returns fixed credentials used across provider tests.
func testCredentials() Credentials {
	return Credentials{
		ClientID:     "relay",
		ClientSecret: "secret",
		Username:     "svc",
		Password:     "pass",
	}
}

// TestAcquire_CachedTokenSkipsExchange asserts the fast path performs no network call.
func TestAcquire_CachedTokenSkipsExchange(t *testing.T) {
	t.Parallel()

	server, exchanges := newIdentityProvider(t, http.StatusOK, `{"access_token": "fresh"}`)

	store := repo.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "cached", time.Minute))

	p := NewProvider(store, server.Client(), server.URL, testCredentials(), 120*time.Second)

	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached", got)
	require.Zero(t, exchanges.Load())
}

// TestAcquire_MissExchangesAndCaches asserts a miss triggers exactly one
// exchange and two dispatches within the window reuse the token.
func TestAcquire_MissExchangesAndCaches(t *testing.T) {
	t.Parallel()

	server, exchanges := newIdentityProvider(t, http.StatusOK, `{"access_token": "fresh"}`)

	store := repo.NewMemoryStore()
	p := NewProvider(store, server.Client(), server.URL, testCredentials(), 120*time.Second)

	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", got)

	// Second acquisition within the validity window hits the cache.
	got, err = p.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", got)
	require.Equal(t, int64(1), exchanges.Load())
}

// TestAcquire_ExpiryTriggersNewExchange asserts an elapsed validity window
// forces exactly one new exchange.
func TestAcquire_ExpiryTriggersNewExchange(t *testing.T) {
	t.Parallel()

	server, exchanges := newIdentityProvider(t, http.StatusOK, `{"access_token": "fresh"}`)

	store := repo.NewMemoryStore()

	current := time.Unix(1000, 0)
	store.SetClock(func() time.Time { return current })

	p := NewProvider(store, server.Client(), server.URL, testCredentials(), 120*time.Second)

	_, err := p.Acquire(context.Background())
	require.NoError(t, err)

	current = current.Add(121 * time.Second)

	_, err = p.Acquire(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), exchanges.Load())
}

// TestAcquire_RejectedExchange asserts non-success responses map to ErrAuthFailure.
func TestAcquire_RejectedExchange(t *testing.T) {
	t.Parallel()

	server, _ := newIdentityProvider(t, http.StatusUnauthorized, `{"error": "invalid_client"}`)

	p := NewProvider(repo.NewMemoryStore(), server.Client(), server.URL, testCredentials(), 120*time.Second)

	_, err := p.Acquire(context.Background())
	require.ErrorIs(t, err, ErrAuthFailure)
}

// TestAcquire_EmptyToken asserts a success response without a token is a failure.
func TestAcquire_EmptyToken(t *testing.T) {
	t.Parallel()

	server, _ := newIdentityProvider(t, http.StatusOK, `{}`)

	p := NewProvider(repo.NewMemoryStore(), server.Client(), server.URL, testCredentials(), 120*time.Second)

	_, err := p.Acquire(context.Background())
	require.ErrorIs(t, err, ErrAuthFailure)
}
