package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alert-relay/internal/domain/alert"
	"github.com/oshokin/alert-relay/internal/repository/contacts"
)

var (
	errTestAuth = errors.New("test auth error")
	errTestSend = errors.New("test send error")
)

// fakeProvider is a TokenProvider returning a fixed token or error.
type fakeProvider struct {
	// token is returned on success.
	token string
	// err, when set, fails every acquisition.
	err error
	// calls counts acquisitions.
	calls int
}

// Acquire returns the configured token or error.
func (p *fakeProvider) Acquire(context.Context) (string, error) {
	p.calls++

	return p.token, p.err
}

// sentMessage records one delivery attempt observed by the fake sender.
type sentMessage struct {
	// Phone is the destination of the attempt.
	Phone string
	// Message is the body of the attempt.
	Message string
	// Token is the bearer token presented.
	Token string
}

// fakeSender is a MessageSender recording attempts and failing selected phones.
type fakeSender struct {
	// sent holds every attempt in order.
	sent []sentMessage
	// failPhones lists destinations whose deliveries are rejected.
	failPhones map[string]struct{}
}

// Send records the attempt and fails it when the phone is marked.
func (s *fakeSender) Send(_ context.Context, phone, message, accessToken string) error {
	s.sent = append(s.sent, sentMessage{Phone: phone, Message: message, Token: accessToken})

	if _, ok := s.failPhones[phone]; ok {
		return errTestSend
	}

	return nil
}

// newTestDirectory builds a directory with sre and devops teams.
func newTestDirectory(t *testing.T) contacts.Directory {
	t.Helper()

	d, err := contacts.ParseDirectory([]byte(`{
		"sre": [{"phone": "+1000"}, {"phone": "+2000"}],
		"devops": [{"phone": "+3000"}, {"phone": "+4000"}]
	}`))
	require.NoError(t, err)

	return d
}

// phones extracts the destinations of the recorded attempts in order.
func phones(sent []sentMessage) []string {
	result := make([]string, 0, len(sent))
	for _, m := range sent {
		result = append(result, m.Phone)
	}

	return result
}

// TestDispatch_KnownTeamFanOut asserts every member of the labeled team gets
// exactly one attempt and no other team is contacted.
func TestDispatch_KnownTeamFanOut(t *testing.T) {
	t.Parallel()

	sender := new(fakeSender)
	s := NewService(newTestDirectory(t), &fakeProvider{token: "tok"}, sender)

	result := s.Dispatch(context.Background(), domain.Batch{
		{Description: "disk full", Team: "sre"},
	})

	require.Equal(t, []string{"+1000", "+2000"}, phones(sender.sent))
	require.Contains(t, sender.sent[0].Message, "disk full")
	require.Equal(t, "tok", sender.sent[0].Token)

	require.Equal(t, 1, result.AlertsProcessed)
	require.Zero(t, result.AlertsFailed)
	require.Equal(t, 2, result.DeliveriesAttempted)
	require.Zero(t, result.DeliveriesFailed)
}

// TestDispatch_FallbackTeam asserts missing and unknown labels route to the
// fallback team, exactly one attempt per member, none skipped or duplicated.
func TestDispatch_FallbackTeam(t *testing.T) {
	t.Parallel()

	for name, team := range map[string]string{"missing": "", "unknown": "nosuch"} {
		team := team

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sender := new(fakeSender)
			s := NewService(newTestDirectory(t), &fakeProvider{token: "tok"}, sender)

			result := s.Dispatch(context.Background(), domain.Batch{
				{Description: "cpu hot", Team: team},
			})

			require.Equal(t, []string{"+3000", "+4000"}, phones(sender.sent))
			require.Equal(t, 2, result.DeliveriesAttempted)
			require.Zero(t, result.DeliveriesFailed)
		})
	}
}

// TestDispatch_FallbackTeamAbsent asserts a directory miss on the fallback
// team yields zero sends and no failure.
func TestDispatch_FallbackTeamAbsent(t *testing.T) {
	t.Parallel()

	d, err := contacts.ParseDirectory([]byte(`{"sre": [{"phone": "+1000"}]}`))
	require.NoError(t, err)

	sender := new(fakeSender)
	s := NewService(d, &fakeProvider{token: "tok"}, sender)

	result := s.Dispatch(context.Background(), domain.Batch{{Description: "x"}})

	require.Empty(t, sender.sent)
	require.Equal(t, 1, result.AlertsProcessed)
	require.Zero(t, result.AlertsFailed)
	require.Zero(t, result.DeliveriesAttempted)
}

// TestDispatch_AuthFailureIsolation asserts a credential failure aborts the
// affected alert with zero sends while subsequent alerts are still processed.
func TestDispatch_AuthFailureIsolation(t *testing.T) {
	t.Parallel()

	sender := new(fakeSender)
	provider := &fakeProvider{err: errTestAuth}
	s := NewService(newTestDirectory(t), provider, sender)

	result := s.Dispatch(context.Background(), domain.Batch{
		{Description: "first", Team: "sre"},
		{Description: "second", Team: "sre"},
	})

	require.Empty(t, sender.sent)
	require.Equal(t, 2, result.AlertsProcessed)
	require.Equal(t, 2, result.AlertsFailed)

	// Each alert attempted its own acquisition.
	require.Equal(t, 2, provider.calls)
}

// TestDispatch_DeliveryFailureIsolation asserts a rejected delivery does not
// stop remaining recipients or subsequent alerts.
func TestDispatch_DeliveryFailureIsolation(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{failPhones: map[string]struct{}{"+1000": {}}}
	s := NewService(newTestDirectory(t), &fakeProvider{token: "tok"}, sender)

	result := s.Dispatch(context.Background(), domain.Batch{
		{Description: "first", Team: "sre"},
		{Description: "second", Team: "devops"},
	})

	require.Equal(t, []string{"+1000", "+2000", "+3000", "+4000"}, phones(sender.sent))
	require.Equal(t, 4, result.DeliveriesAttempted)
	require.Equal(t, 1, result.DeliveriesFailed)
	require.Zero(t, result.AlertsFailed)
}

// TestDispatch_IndependentAlerts asserts two alerts for the same team produce
// one delivery per member per alert; no cross-alert dedup.
func TestDispatch_IndependentAlerts(t *testing.T) {
	t.Parallel()

	sender := new(fakeSender)
	s := NewService(newTestDirectory(t), &fakeProvider{token: "tok"}, sender)

	result := s.Dispatch(context.Background(), domain.Batch{
		{Description: "one", Team: "sre"},
		{Description: "two", Team: "sre"},
	})

	require.Equal(t, []string{"+1000", "+2000", "+1000", "+2000"}, phones(sender.sent))
	require.Equal(t, 4, result.DeliveriesAttempted)
}
