package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mercariwatch/internal/models"
)

const (
	// Monitor Defaults
	DefaultPollIntervalSeconds = 60
	DefaultCooldownSeconds     = 30
	DefaultBootstrapLimit      = 100
	DefaultStaggerSeconds      = 5

	// Mercari Client Defaults
	DefaultMercariBaseURL        = "https://www.mercari.com"
	DefaultMercariUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultMercariTimeoutSecs    = 30
	DefaultMercariRequestsPerMin = 30
	DefaultMercariPhotoDir       = "photos"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Storage Defaults
	DefaultSeenStoreBackend = "memory"
	DefaultSeenStoreDBPath  = "database/seen/seen_items.db"
	DefaultArchiveBasePath  = "database/items"
	DefaultCompressionCodec = "zstd"

	// Email Defaults
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

// GlobalConfig aggregates every configuration section. It is constructed
// once at startup and passed by reference; nothing mutates it afterwards.
type GlobalConfig struct {
	Filters            []models.Filter    `json:"filters,omitempty" yaml:"filters,omitempty"`
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MercariConfig      MercariConfig      `json:"mercari_config,omitempty" yaml:"mercari_config,omitempty"`
	MonitorConfig      MonitorConfig      `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Filters:            []models.Filter{},
		LogConfig:          NewDefaultLogConfig(),
		MercariConfig:      NewDefaultMercariConfig(),
		MonitorConfig:      NewDefaultMonitorConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
	}
}

// MonitorConfig holds the timing knobs of the polling loop.
type MonitorConfig struct {
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty" validate:"omitempty,min=1"`
	CooldownSeconds     int `json:"cooldown_seconds,omitempty" yaml:"cooldown_seconds,omitempty" validate:"omitempty,min=1"`
	BootstrapLimit      int `json:"bootstrap_limit,omitempty" yaml:"bootstrap_limit,omitempty" validate:"omitempty,min=1"`
	StaggerSeconds      int `json:"stagger_seconds,omitempty" yaml:"stagger_seconds,omitempty" validate:"omitempty,min=0"`
}

func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		CooldownSeconds:     DefaultCooldownSeconds,
		BootstrapLimit:      DefaultBootstrapLimit,
		StaggerSeconds:      DefaultStaggerSeconds,
	}
}

// MercariConfig configures the marketplace client.
type MercariConfig struct {
	BaseURL           string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	UserAgent         string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	TimeoutSecs       int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	RequestsPerMinute int    `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty" validate:"omitempty,min=1"`
	DownloadPhotos    bool   `json:"download_photos" yaml:"download_photos"`
	PhotoDir          string `json:"photo_dir,omitempty" yaml:"photo_dir,omitempty"`
}

func NewDefaultMercariConfig() MercariConfig {
	return MercariConfig{
		BaseURL:           DefaultMercariBaseURL,
		UserAgent:         DefaultMercariUserAgent,
		TimeoutSecs:       DefaultMercariTimeoutSecs,
		RequestsPerMinute: DefaultMercariRequestsPerMin,
		DownloadPhotos:    true,
		PhotoDir:          DefaultMercariPhotoDir,
	}
}

// AlertzyConfig configures the push channel.
type AlertzyConfig struct {
	AccountKey string `json:"account_key,omitempty" yaml:"account_key,omitempty"`
	Disabled   bool   `json:"disabled" yaml:"disabled"`
}

// Configured reports whether the push channel has a key and is not disabled.
func (a AlertzyConfig) Configured() bool {
	return !a.Disabled && a.AccountKey != ""
}

// EmailConfig configures the SMTP channel. Credentials are side-loaded from
// the config file; a missing file leaves the channel disabled.
type EmailConfig struct {
	SMTPHost   string   `json:"smtp_host,omitempty" yaml:"smtp_host,omitempty"`
	SMTPPort   int      `json:"smtp_port,omitempty" yaml:"smtp_port,omitempty" validate:"omitempty,min=1,max=65535"`
	Username   string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string   `json:"password,omitempty" yaml:"password,omitempty"`
	Recipients []string `json:"recipients,omitempty" yaml:"recipients,omitempty" validate:"omitempty,dive,email"`
	Disabled   bool     `json:"disabled" yaml:"disabled"`
}

// Configured reports whether the channel has enough credentials to send.
func (e EmailConfig) Configured() bool {
	return !e.Disabled && e.Username != "" && e.Password != "" && len(e.Recipients) > 0
}

type NotificationConfig struct {
	Alertzy AlertzyConfig `json:"alertzy,omitempty" yaml:"alertzy,omitempty"`
	Email   EmailConfig   `json:"email,omitempty" yaml:"email,omitempty"`
}

func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Alertzy: AlertzyConfig{},
		Email: EmailConfig{
			SMTPHost: DefaultSMTPHost,
			SMTPPort: DefaultSMTPPort,
		},
	}
}

type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty"`
}

func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile,
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}

// StorageConfig selects the seen-store backend and the optional item
// archive location.
type StorageConfig struct {
	SeenStoreBackend string `json:"seen_store_backend,omitempty" yaml:"seen_store_backend,omitempty" validate:"omitempty,seenbackend"`
	SeenStoreDBPath  string `json:"seen_store_db_path,omitempty" yaml:"seen_store_db_path,omitempty"`
	ArchiveEnabled   bool   `json:"archive_enabled" yaml:"archive_enabled"`
	ArchiveBasePath  string `json:"archive_base_path,omitempty" yaml:"archive_base_path,omitempty"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty"`
}

func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SeenStoreBackend: DefaultSeenStoreBackend,
		SeenStoreDBPath:  DefaultSeenStoreDBPath,
		ArchiveEnabled:   false,
		ArchiveBasePath:  DefaultArchiveBasePath,
		CompressionCodec: DefaultCompressionCodec,
	}
}

// LoadGlobalConfig loads the configuration from the given YAML or JSON file.
// An empty path or a missing file is a valid state: all defaults apply and
// the email channel stays disabled, matching the side-loaded credential file
// behavior the tool has always had.
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := parseConfigContent(data, path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config content: %w", err)
	}
	return cfg, nil
}

func parseConfigContent(data []byte, path string, cfg *GlobalConfig) error {
	ext := filepath.Ext(path)
	if isYAMLFile(ext) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from '%s': %w", path, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}
	return nil
}

func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
