package dispatcher

import (
	"context"

	domain "github.com/oshokin/alert-relay/internal/domain/alert"
	"github.com/oshokin/alert-relay/internal/logger"
	"github.com/oshokin/alert-relay/internal/metrics"
	"github.com/oshokin/alert-relay/internal/repository/contacts"
)

// FallbackTeam is the team notified when an alert carries no team label or
// references an unknown one.
const FallbackTeam = "devops"

// TokenProvider acquires a valid access token for gateway calls.
type TokenProvider interface {
	Acquire(ctx context.Context) (string, error)
}

// MessageSender delivers one message to one recipient.
type MessageSender interface {
	Send(ctx context.Context, phone, message, accessToken string) error
}

// Result summarizes one dispatched batch.
type Result struct {
	// AlertsProcessed is the number of alerts taken from the batch.
	AlertsProcessed int
	// AlertsFailed is the number of alerts aborted before any delivery.
	AlertsFailed int
	// DeliveriesAttempted is the number of individual send attempts.
	DeliveriesAttempted int
	// DeliveriesFailed is the number of send attempts the gateway rejected.
	DeliveriesFailed int
}

// Service orchestrates alert dispatch: token acquisition, team resolution
// and per-recipient fan-out.
type Service struct {
	// directory resolves team identifiers to member lists.
	directory contacts.Directory
	// tokens supplies access tokens, typically cache-backed.
	tokens TokenProvider
	// sender delivers individual messages.
	sender MessageSender
}

// NewService wires the dispatcher with its collaborators.
func NewService(directory contacts.Directory, tokens TokenProvider, sender MessageSender) *Service {
	return &Service{
		directory: directory,
		tokens:    tokens,
		sender:    sender,
	}
}

// Dispatch processes the batch sequentially in arrival order.
//
// A credential failure aborts the current alert with zero sends and moves on
// to the next one. A rejected delivery is counted against that recipient only
// and never stops remaining recipients or alerts.
func (s *Service) Dispatch(ctx context.Context, batch domain.Batch) *Result {
	result := new(Result)

	for _, item := range batch {
		result.AlertsProcessed++
		metrics.AlertsProcessed.Inc()

		s.dispatchOne(ctx, item, result)
	}

	logger.InfoKV(ctx, "Batch dispatched",
		"alerts", result.AlertsProcessed,
		"alerts_failed", result.AlertsFailed,
		"deliveries", result.DeliveriesAttempted,
		"deliveries_failed", result.DeliveriesFailed)

	return result
}

// dispatchOne delivers a single alert to every member of its resolved team.
func (s *Service) dispatchOne(ctx context.Context, item domain.Alert, result *Result) {
	message := item.Message()

	// The token is required before any recipient is resolved or contacted.
	accessToken, err := s.tokens.Acquire(ctx)
	if err != nil {
		result.AlertsFailed++
		metrics.AlertsFailed.Inc()
		logger.ErrorKV(ctx, "Alert dropped: no access token", "team", item.Team, "error", err)

		return
	}

	members, teamID := s.resolveTeam(ctx, item)

	for _, member := range members {
		result.DeliveriesAttempted++
		metrics.DeliveriesAttempted.Inc()

		if err = s.sender.Send(ctx, member.Phone, message, accessToken); err != nil {
			result.DeliveriesFailed++
			metrics.DeliveriesFailed.Inc()
			logger.ErrorKV(ctx, "Delivery failed", "team", teamID, "phone", member.Phone, "error", err)
		}
	}
}

// resolveTeam returns the member list for the alert's team, falling back to
// FallbackTeam when the label is empty or unknown. A directory miss on the
// fallback team resolves to an empty list: zero sends, no error.
func (s *Service) resolveTeam(ctx context.Context, item domain.Alert) (domain.Team, string) {
	if members, ok := s.directory.Resolve(item.Team); ok {
		return members, item.Team
	}

	logger.InfoKV(ctx, "Team label missing or unknown, using fallback team",
		"team", item.Team, "fallback", FallbackTeam)

	members, ok := s.directory.Resolve(FallbackTeam)
	if !ok {
		logger.WarnKV(ctx, "Fallback team not present in contact directory", "fallback", FallbackTeam)

		return nil, FallbackTeam
	}

	return members, FallbackTeam
}
