// Package notifier implements the outbound notification channels. Both
// channels are independently optional; a nil channel is skipped by the
// monitors without error.
package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"mercariwatch/internal/config"
)

// PushChannel is the fire-and-forget push contract. Implementations swallow
// transport errors and report success as a boolean.
type PushChannel interface {
	Notify(ctx context.Context, message, title, link, imageURL string) bool
}

// EmailChannel is the email contract. Delivery failures propagate to the
// caller.
type EmailChannel interface {
	Notify(subject, htmlBody, attachmentPath string) error
}

// Channels bundles the configured notification channels. All keyword
// monitors share one Channels value; each channel serializes its own
// transport internally. A nil field means the channel is disabled.
type Channels struct {
	Push  PushChannel
	Email EmailChannel
}

// NewChannels constructs the channels from configuration and sends a
// startup self-test notification on each enabled channel. A failing email
// self-test is an error: bad SMTP credentials should stop the process
// before any monitor runs.
func NewChannels(cfg config.NotificationConfig, logger zerolog.Logger) (*Channels, error) {
	ch := &Channels{}

	if push := NewAlertzyNotifier(cfg.Alertzy, logger); push != nil {
		push.Notify(context.Background(), "Monitoring has started.", "Mercari", "", "")
		ch.Push = push
	}

	if email := NewEmailNotifier(cfg.Email, logger); email != nil {
		if err := email.Notify("Mercari", "Monitoring has started.", ""); err != nil {
			return nil, err
		}
		ch.Email = email
	}

	return ch, nil
}
