package notifier

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"mercariwatch/internal/config"
)

// EmailNotifier fans a notification out to every configured recipient over
// SMTP. Unlike the push channel, a delivery failure propagates to the
// caller: email carries the stronger delivery guarantee, and the poll-cycle
// error handler decides what to do with the failure.
type EmailNotifier struct {
	dialer     emailDialer
	from       string
	recipients []string
	logger     zerolog.Logger

	// Serializes dispatch; all monitors share this channel.
	mu sync.Mutex
}

// emailDialer is satisfied by *gomail.Dialer; tests substitute a fake.
type emailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// NewEmailNotifier creates the email channel. Returns nil when credentials
// are missing; callers treat a nil notifier as "disabled".
func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) *EmailNotifier {
	if !cfg.Configured() {
		logger.Warn().Msg("Email is not configured. If you want email notifications, add the email section to the config file. A dedicated account just for this purpose is advisable.")
		return nil
	}
	return &EmailNotifier{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:       cfg.Username,
		recipients: cfg.Recipients,
		logger:     logger.With().Str("component", "EmailNotifier").Logger(),
	}
}

// Notify sends one message per recipient. The first delivery failure is
// returned; earlier successful deliveries are not rolled back.
func (e *EmailNotifier) Notify(subject, htmlBody, attachmentPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, recipient := range e.recipients {
		m := gomail.NewMessage()
		m.SetHeader("From", e.from)
		m.SetHeader("To", recipient)
		m.SetHeader("Subject", subject)
		m.SetBody("text/html", htmlBody)
		if attachmentPath != "" {
			m.Attach(attachmentPath)
		}

		if err := e.dialer.DialAndSend(m); err != nil {
			return fmt.Errorf("failed to send email to %s: %w", recipient, err)
		}
		e.logger.Info().
			Str("recipient", recipient).
			Str("subject", subject).
			Msg("Email notification sent")
	}
	return nil
}
