// Package resmon periodically logs process resource usage. The seen-sets
// grow without bound over the process lifetime, so a visible memory trend
// is worth having in the logs.
package resmon

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	defaultInterval      = 10 * time.Minute
	warnSystemMemPercent = 90.0
)

// Watcher samples memory usage on a fixed interval.
type Watcher struct {
	interval time.Duration
	logger   zerolog.Logger
}

func NewWatcher(logger zerolog.Logger) *Watcher {
	return &Watcher{
		interval: defaultInterval,
		logger:   logger.With().Str("component", "ResourceWatcher").Logger(),
	}
}

// Run blocks until the context is cancelled, logging a usage sample every
// interval.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *Watcher) sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	event := w.logger.Info()

	if vmStat, err := mem.VirtualMemory(); err == nil {
		if vmStat.UsedPercent >= warnSystemMemPercent {
			event = w.logger.Warn()
		}
		event = event.
			Int64("system_mem_used_mb", int64(vmStat.Used/1024/1024)).
			Float64("system_mem_used_percent", vmStat.UsedPercent)
	}

	event.
		Int64("alloc_mb", int64(m.Alloc/1024/1024)).
		Int("goroutines", runtime.NumGoroutine()).
		Msg("Resource usage sample")
}
