package sms

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alert-relay/internal/logger"
)

// messageType is the fixed category label the gateway expects.
const messageType = "Information"

// ErrDeliveryFailure indicates the SMS gateway rejected a message.
// Surfaced to the caller; the relay never retries automatically.
var ErrDeliveryFailure = errors.New("SMS gateway rejected message")

// Sender delivers one message to one recipient through the SMS gateway.
type Sender struct {
	// client is the HTTP client used for gateway calls. Carries the timeout.
	client *http.Client
	// gatewayURL is the full URL of the SMS gateway endpoint.
	gatewayURL string
}

// Option configures sender behaviour.
type Option func(*Sender)

// WithHTTPClient replaces the sender's HTTP client. Intended for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// NewSender creates a Sender for the provided gateway endpoint.
//
// TLS certificate verification is on unless insecureSkipVerify is set; the
// opt-out exists for gateways inside a trusted perimeter with private CAs.
func NewSender(gatewayURL string, timeout time.Duration, insecureSkipVerify bool, opts ...Option) *Sender {
	transport := http.DefaultTransport
	if insecureSkipVerify {
		transport = &http.Transport{
			//nolint:gosec // Explicit operator opt-in, off by default.
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	s := &Sender{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		gatewayURL: gatewayURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// messagePayload is the JSON body the gateway accepts.
type messagePayload struct {
	// PhoneNumber is the destination phone number.
	PhoneNumber string `json:"phoneNumber"`
	// Body is the message text.
	Body string `json:"body"`
	// Type is the fixed category label.
	Type string `json:"type"`
}

// Send delivers the message to the phone number, authenticating with the
// provided bearer token. Each request carries a freshly generated request-id
// for gateway-side idempotency and tracing.
func (s *Sender) Send(ctx context.Context, phone, message, accessToken string) error {
	payload, err := json.Marshal(messagePayload{
		PhoneNumber: phone,
		Body:        message,
		Type:        messageType,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("request-id", requestID)

	logger.DebugKV(ctx, "Sending SMS", "phone", phone, "request_id", requestID)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)

		return fmt.Errorf("%w: unexpected status %d", ErrDeliveryFailure, resp.StatusCode)
	}

	logger.InfoKV(ctx, "SMS sent", "phone", phone, "request_id", requestID)

	return nil
}
