package notifier

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"mercariwatch/internal/config"
)

type fakeDialer struct {
	sent    []*gomail.Message
	failOnN int // 1-based index of the send that should fail; 0 never fails
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	if f.failOnN > 0 && len(f.sent) >= f.failOnN {
		return errors.New("smtp unavailable")
	}
	return nil
}

func newTestEmail(dialer emailDialer, recipients ...string) *EmailNotifier {
	return &EmailNotifier{
		dialer:     dialer,
		from:       "watcher@gmail.com",
		recipients: recipients,
		logger:     zerolog.Nop(),
	}
}

func TestEmailNotify_FansOutToAllRecipients(t *testing.T) {
	dialer := &fakeDialer{}
	e := newTestEmail(dialer, "a@example.com", "b@example.com")

	require.NoError(t, e.Notify("Nintendo Switch Lite 1450", "https://example.com<br/><br/>desc", ""))
	assert.Len(t, dialer.sent, 2)

	first := dialer.sent[0]
	assert.Equal(t, []string{"a@example.com"}, first.GetHeader("To"))
	assert.Equal(t, []string{"Nintendo Switch Lite 1450"}, first.GetHeader("Subject"))
}

func TestEmailNotify_DeliveryFailurePropagates(t *testing.T) {
	dialer := &fakeDialer{failOnN: 2}
	e := newTestEmail(dialer, "a@example.com", "b@example.com")

	err := e.Notify("subject", "body", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b@example.com")
}

func TestNewEmailNotifier_UnconfiguredReturnsNil(t *testing.T) {
	assert.Nil(t, NewEmailNotifier(config.EmailConfig{}, zerolog.Nop()))

	cfg := config.EmailConfig{
		SMTPHost:   "smtp.gmail.com",
		SMTPPort:   587,
		Username:   "watcher@gmail.com",
		Password:   "app-password",
		Recipients: []string{"me@example.com"},
	}
	assert.NotNil(t, NewEmailNotifier(cfg, zerolog.Nop()))

	cfg.Disabled = true
	assert.Nil(t, NewEmailNotifier(cfg, zerolog.Nop()))
}
