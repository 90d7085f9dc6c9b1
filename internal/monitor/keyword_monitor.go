// Package monitor implements the per-keyword polling loop: bootstrap the
// seen-set, then poll the first search result page, diff against seen
// identifiers, and notify once per qualifying new item.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mercariwatch/internal/config"
	"mercariwatch/internal/mercari"
	"mercariwatch/internal/models"
	"mercariwatch/internal/notifier"
	"mercariwatch/internal/seenstore"
)

// ItemArchiver records observed listings. Optional; the datastore package
// provides the parquet implementation.
type ItemArchiver interface {
	Record(keyword string, item *models.Item, notified bool) error
}

// KeywordMonitor owns one search filter and its seen-set, and runs an
// independent polling loop. Monitors share the notifier channels but no
// other mutable state.
type KeywordMonitor struct {
	filter   models.Filter
	cfg      config.MonitorConfig
	client   mercari.Client
	seen     seenstore.Store
	channels *notifier.Channels
	archive  ItemArchiver
	logger   zerolog.Logger
}

// NewKeywordMonitor constructs a monitor with an empty (or preloaded, for
// the persistent backend) seen-set.
func NewKeywordMonitor(
	filter models.Filter,
	cfg config.MonitorConfig,
	client mercari.Client,
	seen seenstore.Store,
	channels *notifier.Channels,
	archive ItemArchiver,
	baseLogger zerolog.Logger,
) *KeywordMonitor {
	return &KeywordMonitor{
		filter:   filter,
		cfg:      cfg,
		client:   client,
		seen:     seen,
		channels: channels,
		archive:  archive,
		logger: baseLogger.With().
			Str("component", "KeywordMonitor").
			Str("keyword", filter.Keyword).
			Str("monitor_id", uuid.NewString()).
			Logger(),
	}
}

// Bootstrap fetches the current listing snapshot and marks every
// identifier as seen without notifying: pre-existing listings are not new.
func (m *KeywordMonitor) Bootstrap(ctx context.Context) error {
	ids, err := m.client.FetchAllItems(ctx, m.filter.Keyword, m.filter.PriceMin, m.filter.PriceMax, m.cfg.BootstrapLimit)
	if err != nil {
		return fmt.Errorf("bootstrap fetch failed for %q: %w", m.filter.Keyword, err)
	}
	for _, id := range ids {
		if err := m.seen.Add(id); err != nil {
			return fmt.Errorf("bootstrap seen-set add failed for %q: %w", m.filter.Keyword, err)
		}
	}
	m.logger.Info().
		Int("snapshot_size", len(ids)).
		Int("seen_total", m.seen.Len()).
		Msg("Bootstrap complete, existing listings recorded")
	return nil
}

// Run blocks for the lifetime of the process. Every poll interval it runs
// one cycle; a cycle error is logged and followed by an extended cool-down
// before the loop resumes. Only context cancellation ends the loop.
func (m *KeywordMonitor) Run(ctx context.Context) {
	m.logger.Info().
		Int("price_min", m.filter.PriceMin).
		Int("price_max", m.filter.PriceMax).
		Msg("Starting monitoring")

	for {
		if err := m.Bootstrap(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Error().Err(err).Msg("Bootstrap failed, retrying after cool-down")
			if !m.sleep(ctx, m.cooldown()) {
				return
			}
			continue
		}
		break
	}

	m.logger.Info().
		Dur("poll_interval", m.pollInterval()).
		Msg("Watching the first result page for new items")

	for {
		if !m.sleep(ctx, m.pollInterval()) {
			m.logger.Info().Msg("Monitor stopping")
			return
		}

		if err := m.checkForNewItems(ctx); err != nil {
			if ctx.Err() != nil {
				m.logger.Info().Msg("Monitor stopping")
				return
			}
			m.logger.Error().Err(err).Msg("Poll cycle failed, cooling down")
			if !m.sleep(ctx, m.cooldown()) {
				m.logger.Info().Msg("Monitor stopping")
				return
			}
		}
	}
}

// checkForNewItems runs one poll cycle: fetch the first page, diff against
// the seen-set, and process each new identifier independently. Identifiers
// are marked seen before their detail fetch, so a failure mid-cycle never
// reprocesses an item on the next cycle (at-most-once delivery).
func (m *KeywordMonitor) checkForNewItems(ctx context.Context) error {
	pageIDs, err := m.client.FetchFirstPage(ctx, m.filter.Keyword, m.filter.PriceMin, m.filter.PriceMax)
	if err != nil {
		return fmt.Errorf("first page fetch failed: %w", err)
	}

	for _, id := range pageIDs {
		if m.seen.Contains(id) {
			continue
		}
		m.logger.Debug().Str("item_id", id).Msg("New identifier on first page")

		if err := m.seen.Add(id); err != nil {
			return fmt.Errorf("seen-set add failed for %s: %w", id, err)
		}
		if err := m.processNewItem(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// processNewItem fetches the detail for one already-marked-seen identifier,
// applies the match predicate, and dispatches notifications.
func (m *KeywordMonitor) processNewItem(ctx context.Context, id string) error {
	item, err := m.client.GetItemInfo(ctx, id)
	if err != nil {
		return fmt.Errorf("detail fetch failed for %s: %w", id, err)
	}

	if !item.Matches(m.filter.Keyword) {
		m.logger.Debug().
			Str("item_id", id).
			Str("name", item.Name).
			Bool("is_new", item.IsNew).
			Bool("in_stock", item.InStock).
			Msg("Item does not qualify, staying silent")
		m.archiveItem(item, false)
		return nil
	}

	m.logger.Info().
		Str("item_id", id).
		Str("name", item.Name).
		Int("price", item.Price).
		Msg("New qualifying item detected")

	subject := fmt.Sprintf("%s %d", item.Name, item.Price)
	body := fmt.Sprintf("%s<br/><br/>%s", item.URL, item.Description)

	attachment := ""
	if path, err := m.client.DownloadPhoto(ctx, item); err != nil {
		m.logger.Warn().Err(err).Str("item_id", id).Msg("Photo download failed, notifying without attachment")
	} else {
		attachment = path
	}

	if m.channels.Push != nil {
		message := fmt.Sprintf("%s %s", subject, item.URL)
		if !m.channels.Push.Notify(ctx, message, m.filter.Keyword, item.URL, item.PhotoURL) {
			m.logger.Warn().Str("item_id", id).Msg("Push notification failed")
		}
	} else {
		m.logger.Debug().Msg("Push channel disabled, skipping")
	}

	if m.channels.Email != nil {
		if err := m.channels.Email.Notify(subject, body, attachment); err != nil {
			m.archiveItem(item, false)
			return fmt.Errorf("email dispatch failed for %s: %w", id, err)
		}
	} else {
		m.logger.Debug().Msg("Email channel disabled, skipping")
	}

	m.archiveItem(item, true)
	return nil
}

func (m *KeywordMonitor) archiveItem(item *models.Item, notified bool) {
	if m.archive == nil {
		return
	}
	if err := m.archive.Record(m.filter.Keyword, item, notified); err != nil {
		m.logger.Warn().Err(err).Str("item_id", item.ID).Msg("Failed to archive item")
	}
}

// sleep blocks for d or until the context is cancelled. Returns false on
// cancellation.
func (m *KeywordMonitor) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (m *KeywordMonitor) pollInterval() time.Duration {
	return time.Duration(m.cfg.PollIntervalSeconds) * time.Second
}

func (m *KeywordMonitor) cooldown() time.Duration {
	return time.Duration(m.cfg.CooldownSeconds) * time.Second
}

// Keyword returns the monitored keyword, for logging by the orchestrator.
func (m *KeywordMonitor) Keyword() string {
	return m.filter.Keyword
}

// SeenCount exposes the seen-set size for tests and diagnostics.
func (m *KeywordMonitor) SeenCount() int {
	return m.seen.Len()
}
