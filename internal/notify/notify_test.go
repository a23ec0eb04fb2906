package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/rentwatch-go/internal/config"
	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
)

func testConfig() config.NotifyConfig {
	return config.NotifyConfig{
		Enabled:    true,
		SMTPServer: "smtp.example.com",
		SMTPPort:   587,
		Username:   "watch@example.com",
		Password:   "secret",
		From:       "watch@example.com",
		To:         []string{"me@example.com"},
	}
}

func testReport() *domain.ReportSnapshot {
	return &domain.ReportSnapshot{
		Date: "2026-08-23",
		Plans: []domain.PlanReport{
			{
				PlanName: "plan-a",
				Units: []domain.ChangeRecord{
					{
						IdentityKey:  "204-2",
						CurrentPrice: domain.IntPtr(2150),
						Status:       domain.StatusNew,
						Availability: domain.AvailableNow,
					},
				},
			},
		},
		Summary: domain.Summary{New: 1},
	}
}

// TestNotify_SendsMultipartMessage verifies addressing and both bodies
func TestNotify_SendsMultipartMessage(t *testing.T) {
	var sent *email.Email
	var sentAddr string

	n := NewEmailNotifier(testConfig(), utils.NewNopLogger())
	n.send = func(msg *email.Email, addr string, auth smtp.Auth) error {
		sent = msg
		sentAddr = addr
		return nil
	}

	err := n.Notify(context.Background(), "Rent watch 2026-08-23: 1 new unit listed", testReport())
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, "smtp.example.com:587", sentAddr)
	assert.Equal(t, "watch@example.com", sent.From)
	assert.Equal(t, []string{"me@example.com"}, sent.To)
	assert.Equal(t, "Rent watch 2026-08-23: 1 new unit listed", sent.Subject)
	assert.Contains(t, string(sent.Text), "204-2 $2,150")
	assert.Contains(t, string(sent.HTML), "<td>204-2</td>")
}

// TestNotify_RetriesTransientFailures verifies backoff recovery
func TestNotify_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	n := NewEmailNotifier(testConfig(), utils.NewNopLogger())
	n.send = func(msg *email.Email, addr string, auth smtp.Auth) error {
		attempts++
		if attempts < 3 {
			return errors.New("451 temporary failure")
		}
		return nil
	}

	err := n.Notify(context.Background(), "subject", testReport())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

// TestNotify_FailureIsReported verifies the error wraps ErrNotifyFailed
// so callers can treat it as non-fatal
func TestNotify_FailureIsReported(t *testing.T) {
	n := NewEmailNotifier(testConfig(), utils.NewNopLogger())
	n.send = func(msg *email.Email, addr string, auth smtp.Auth) error {
		return errors.New("connection refused")
	}

	err := n.Notify(context.Background(), "subject", testReport())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotifyFailed))
}

// TestNotify_CancelledContext verifies no sends happen after cancellation
func TestNotify_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	n := NewEmailNotifier(testConfig(), utils.NewNopLogger())
	n.send = func(msg *email.Email, addr string, auth smtp.Auth) error {
		attempts++
		return nil
	}

	err := n.Notify(ctx, "subject", testReport())
	require.Error(t, err)
	assert.Zero(t, attempts)
}
