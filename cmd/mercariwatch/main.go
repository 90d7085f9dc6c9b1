package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mercariwatch/internal/config"
	"mercariwatch/internal/datastore"
	"mercariwatch/internal/logger"
	"mercariwatch/internal/mercari"
	"mercariwatch/internal/monitor"
	"mercariwatch/internal/notifier"
	"mercariwatch/internal/orchestrator"
	"mercariwatch/internal/resmon"
)

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config from '%s': %v", flags.GlobalConfigFile, err)
	}
	applyFlagOverrides(gCfg, flags)

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	// Validation must reject bad filters and credentials before a single
	// network request goes out.
	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	zLogger.Info().Int("filters", len(gCfg.Filters)).Msg("Configuration validated")

	channels, err := notifier.NewChannels(gCfg.NotificationConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Notification channel setup failed")
	}

	client := mercari.NewHTTPClient(gCfg.MercariConfig, zLogger)

	var archive monitor.ItemArchiver
	if gCfg.StorageConfig.ArchiveEnabled {
		itemArchive, err := datastore.NewItemArchive(gCfg.StorageConfig, zLogger)
		if err != nil {
			zLogger.Error().Err(err).Msg("Item archive unavailable, continuing without it")
		} else {
			defer func() {
				if err := itemArchive.Close(); err != nil {
					zLogger.Error().Err(err).Msg("Failed to close item archive")
				}
			}()
			archive = itemArchive
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, shutting down")
		cancel()
	}()

	go resmon.NewWatcher(zLogger).Run(ctx)

	orch := orchestrator.NewOrchestrator(gCfg, client, channels, archive, zLogger)
	if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zLogger.Fatal().Err(err).Msg("Orchestrator failed")
	}
	zLogger.Info().Msg("All monitors stopped")
}

// applyFlagOverrides merges command line flags over the file-loaded
// configuration. Flags win.
func applyFlagOverrides(gCfg *config.GlobalConfig, flags AppFlags) {
	if flags.Keywords != "" {
		filters, err := config.ParseFilters(flags.Keywords, flags.MinPrices, flags.MaxPrices)
		if err != nil {
			log.Fatalf("[FATAL] Invalid filter flags: %v", err)
		}
		gCfg.Filters = filters
	}

	if flags.AlertzyKey != "" {
		gCfg.NotificationConfig.Alertzy.AccountKey = flags.AlertzyKey
	}
	if flags.DisableAlertzy {
		gCfg.NotificationConfig.Alertzy.Disabled = true
	}
	if flags.DisableEmail {
		gCfg.NotificationConfig.Email.Disabled = true
	}
	if flags.LogFile != "" {
		gCfg.LogConfig.LogFile = flags.LogFile
	}
}
