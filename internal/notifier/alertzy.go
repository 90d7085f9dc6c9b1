package notifier

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mercariwatch/internal/config"
)

const alertzyEndpoint = "https://alertzy.app/send"

// AlertzyNotifier sends push notifications through the Alertzy service.
// Delivery is fire-and-forget: transport errors are swallowed and reported
// as a boolean so a push failure can never abort a poll cycle.
type AlertzyNotifier struct {
	accountKey string
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger

	// Serializes dispatch; all monitors share this channel.
	mu sync.Mutex
}

// NewAlertzyNotifier creates the push channel. Returns nil when the channel
// is not configured; callers treat a nil notifier as "disabled".
func NewAlertzyNotifier(cfg config.AlertzyConfig, logger zerolog.Logger) *AlertzyNotifier {
	if !cfg.Configured() {
		logger.Warn().Msg("Alertzy is not configured. Push notifications will not be sent.")
		return nil
	}
	return &AlertzyNotifier{
		accountKey: cfg.AccountKey,
		endpoint:   alertzyEndpoint,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     logger.With().Str("component", "AlertzyNotifier").Logger(),
	}
}

// Notify sends one push notification. Returns false on any transport or
// API failure.
func (a *AlertzyNotifier) Notify(ctx context.Context, message, title, link, imageURL string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	form := url.Values{
		"accountKey": {a.accountKey},
		"title":      {title},
		"message":    {message},
	}
	if link != "" {
		form.Set("link", link)
	}
	if imageURL != "" {
		form.Set("image", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to build Alertzy request")
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error().Err(err).Msg("Alertzy request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error().Int("status", resp.StatusCode).Msg("Alertzy returned non-OK status")
		return false
	}

	a.logger.Info().Str("title", title).Msg("Alertzy notification sent")
	return true
}
