// Package orchestrator wires one keyword monitor per configured filter and
// supervises their goroutines for the lifetime of the process.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mercariwatch/internal/config"
	"mercariwatch/internal/mercari"
	"mercariwatch/internal/monitor"
	"mercariwatch/internal/notifier"
	"mercariwatch/internal/seenstore"
)

// Orchestrator builds and runs the keyword monitors. Configuration is
// validated before construction; monitors share the marketplace client and
// notifier channels but nothing else.
type Orchestrator struct {
	cfg      *config.GlobalConfig
	client   mercari.Client
	channels *notifier.Channels
	archive  monitor.ItemArchiver
	logger   zerolog.Logger
}

// NewOrchestrator creates the orchestrator. archive may be nil.
func NewOrchestrator(
	cfg *config.GlobalConfig,
	client mercari.Client,
	channels *notifier.Channels,
	archive monitor.ItemArchiver,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		channels: channels,
		archive:  archive,
		logger:   logger.With().Str("component", "Orchestrator").Logger(),
	}
}

// Run starts one monitor goroutine per filter, staggering each start to
// avoid a correlated request burst at process startup, then blocks until
// every monitor returns. Monitors only return on context cancellation, so
// in normal operation this call never returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	monitors, err := o.buildMonitors()
	if err != nil {
		return err
	}

	stagger := time.Duration(o.cfg.MonitorConfig.StaggerSeconds) * time.Second
	var wg sync.WaitGroup

	for i, km := range monitors {
		if i > 0 && stagger > 0 {
			select {
			case <-ctx.Done():
				o.logger.Info().Msg("Startup interrupted, waiting for running monitors")
				wg.Wait()
				return ctx.Err()
			case <-time.After(stagger):
			}
		}

		wg.Add(1)
		go func(km *monitor.KeywordMonitor) {
			defer wg.Done()
			km.Run(ctx)
		}(km)
		o.logger.Info().Str("keyword", km.Keyword()).Msg("Monitor started")
	}

	wg.Wait()
	return ctx.Err()
}

// buildMonitors constructs one KeywordMonitor with its own seen-set per
// filter.
func (o *Orchestrator) buildMonitors() ([]*monitor.KeywordMonitor, error) {
	monitors := make([]*monitor.KeywordMonitor, 0, len(o.cfg.Filters))
	for _, filter := range o.cfg.Filters {
		seen, err := o.newSeenStore(filter.Keyword)
		if err != nil {
			return nil, fmt.Errorf("failed to create seen-store for %q: %w", filter.Keyword, err)
		}
		monitors = append(monitors, monitor.NewKeywordMonitor(
			filter,
			o.cfg.MonitorConfig,
			o.client,
			seen,
			o.channels,
			o.archive,
			o.logger,
		))
	}
	return monitors, nil
}

func (o *Orchestrator) newSeenStore(keyword string) (seenstore.Store, error) {
	if o.cfg.StorageConfig.SeenStoreBackend == "sqlite" {
		return seenstore.NewSQLiteStore(o.cfg.StorageConfig.SeenStoreDBPath, keyword, o.logger)
	}
	return seenstore.NewMemoryStore(), nil
}
