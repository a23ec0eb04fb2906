// Package notify delivers change reports over SMTP. Delivery is best
// effort: the orchestrator logs and swallows notifier errors so a mail
// outage never blocks history persistence.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/cenkalti/backoff/v4"
	"github.com/jordan-wright/email"

	"github.com/quantmind-br/rentwatch-go/internal/config"
	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/report"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
)

const maxSendRetries = 3

// sendFunc matches email.Email.Send, injectable for tests.
type sendFunc func(msg *email.Email, addr string, auth smtp.Auth) error

// EmailNotifier sends one multipart (text + HTML) message per report.
type EmailNotifier struct {
	cfg    config.NotifyConfig
	logger *utils.Logger
	send   sendFunc
}

// NewEmailNotifier creates a notifier from validated config.
func NewEmailNotifier(cfg config.NotifyConfig, logger *utils.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger.WithComponent("notify"),
		send: func(msg *email.Email, addr string, auth smtp.Auth) error {
			return msg.Send(addr, auth)
		},
	}
}

// Notify renders and delivers the report. Transient SMTP failures are
// retried with exponential backoff before giving up.
func (n *EmailNotifier) Notify(ctx context.Context, subject string, rep *domain.ReportSnapshot) error {
	text, err := report.EmailText(rep)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotifyFailed, err)
	}
	html, err := report.EmailHTML(rep)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotifyFailed, err)
	}

	msg := email.NewEmail()
	msg.From = n.cfg.From
	msg.To = n.cfg.To
	msg.Subject = subject
	msg.Text = []byte(text)
	msg.HTML = []byte(html)

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPServer, n.cfg.SMTPPort)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPServer)
	}

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return n.send(msg, addr, auth)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxSendRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		n.logger.Warn().Err(err).Str("smtp", addr).Msg("Report delivery failed")
		return fmt.Errorf("%w: %v", domain.ErrNotifyFailed, err)
	}

	n.logger.Info().Strs("to", n.cfg.To).Str("subject", subject).Msg("Report delivered")
	return nil
}
