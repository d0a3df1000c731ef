package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oshokin/alert-relay/internal/logger"
	"github.com/oshokin/alert-relay/internal/metrics"
	repo "github.com/oshokin/alert-relay/internal/repository/token"
)

// tokenEndpointPath is the identity provider token endpoint, relative to the
// configured base URL.
const tokenEndpointPath = "/realms/notif-sms/protocol/openid-connect/token"

// ErrAuthFailure indicates the identity provider rejected the credential
// exchange. The caller must not send any message without a token.
var ErrAuthFailure = errors.New("identity provider rejected credential exchange")

// Credentials holds the fixed client and service account credentials used
// for the client-credentials exchange.
type Credentials struct {
	// ClientID is the OAuth client identifier.
	ClientID string
	// ClientSecret is the OAuth client secret.
	ClientSecret string
	// Username is the service account username.
	Username string
	// Password is the service account password.
	Password string
}

// Provider acquires access tokens, consulting the shared cache first and
// falling back to a credential exchange against the identity provider.
type Provider struct {
	// store is the shared credential cache.
	store repo.Store
	// client is the HTTP client used for the exchange. Carries the timeout.
	client *http.Client
	// baseURL is the identity provider base URL.
	baseURL string
	// credentials are the fixed exchange credentials.
	credentials Credentials
	// validFor is the cache validity window for acquired tokens.
	// Kept shorter than the token's real lifetime to force periodic refresh.
	validFor time.Duration
}

// NewProvider wires a Provider with its cache, HTTP client and credentials.
func NewProvider(store repo.Store, client *http.Client, baseURL string, credentials Credentials, validFor time.Duration) *Provider {
	if client == nil {
		client = http.DefaultClient
	}

	return &Provider{
		store:       store,
		client:      client,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: credentials,
		validFor:    validFor,
	}
}

// tokenResponse is the subset of the identity provider response we consume.
type tokenResponse struct {
	// AccessToken is the bearer credential to present to the SMS gateway.
	AccessToken string `json:"access_token"`
}

// Acquire returns a valid access token.
//
// Cache hits are returned without any network call. On a miss the provider
// performs a client-credentials exchange, stores the token with the fixed
// validity window and returns it. Concurrent misses may each perform a
// redundant exchange and overwrite the cache; at least one valid token wins.
func (p *Provider) Acquire(ctx context.Context) (string, error) {
	cached, err := p.store.Get(ctx)
	if err == nil {
		logger.Debug(ctx, "Access token served from cache")

		return cached, nil
	}

	if !errors.Is(err, repo.ErrNotFound) {
		// A degraded cache is not fatal: fall through to the exchange.
		logger.ErrorKV(ctx, "Token cache read failed", "error", err)
	}

	acquired, err := p.exchange(ctx)
	if err != nil {
		return "", err
	}

	if err = p.store.Set(ctx, acquired, p.validFor); err != nil {
		// The token itself is valid; only reuse across dispatches is lost.
		logger.ErrorKV(ctx, "Token cache write failed", "error", err)
	}

	logger.InfoKV(ctx, "New access token acquired", "valid_for", p.validFor)

	return acquired, nil
}

// exchange performs the form-encoded client-credentials exchange.
func (p *Provider) exchange(ctx context.Context) (string, error) {
	metrics.TokenExchanges.Inc()

	form := url.Values{
		"client_id":     {p.credentials.ClientID},
		"client_secret": {p.credentials.ClientSecret},
		"grant_type":    {"client_credentials"},
		"username":      {p.credentials.Username},
		"password":      {p.credentials.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+tokenEndpointPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)

		return "", fmt.Errorf("%w: unexpected status %d", ErrAuthFailure, resp.StatusCode)
	}

	var payload tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrAuthFailure, err)
	}

	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: response carries no access token", ErrAuthFailure)
	}

	return payload.AccessToken, nil
}
