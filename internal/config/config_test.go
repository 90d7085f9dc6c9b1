package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPollIntervalSeconds, cfg.MonitorConfig.PollIntervalSeconds)
	assert.Equal(t, DefaultBootstrapLimit, cfg.MonitorConfig.BootstrapLimit)
	assert.False(t, cfg.NotificationConfig.Email.Configured())
	assert.False(t, cfg.NotificationConfig.Alertzy.Configured())
}

func TestLoadGlobalConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadGlobalConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeenStoreBackend, cfg.StorageConfig.SeenStoreBackend)
}

func TestLoadGlobalConfig_YAML(t *testing.T) {
	content := `
filters:
  - keyword: switch
    price_min: 100
    price_max: 300
monitor_config:
  poll_interval_seconds: 120
notification_config:
  email:
    username: watcher@gmail.com
    password: app-password
    recipients:
      - me@example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Filters, 1)
	assert.Equal(t, "switch", cfg.Filters[0].Keyword)
	assert.Equal(t, 100, cfg.Filters[0].PriceMin)
	assert.Equal(t, 300, cfg.Filters[0].PriceMax)
	assert.Equal(t, 120, cfg.MonitorConfig.PollIntervalSeconds)
	assert.True(t, cfg.NotificationConfig.Email.Configured())
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultSMTPHost, cfg.NotificationConfig.Email.SMTPHost)
	assert.Equal(t, DefaultCooldownSeconds, cfg.MonitorConfig.CooldownSeconds)
}

func TestLoadGlobalConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters: [broken"), 0644))

	_, err := LoadGlobalConfig(path)
	assert.Error(t, err)
}
