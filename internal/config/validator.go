package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure. It is
// called once at startup; any error terminates the process before a single
// network request is made.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for the seen-store backend name
	_ = validate.RegisterValidation("seenbackend", func(fl validator.FieldLevel) bool {
		backend := strings.ToLower(fl.Field().String())
		switch backend {
		case "", "memory", "sqlite":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			var msgs []string
			for _, e := range errs {
				msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", e.StructNamespace(), e.Tag())
				if e.Param() != "" {
					msg += fmt.Sprintf(" (expected: %s)", e.Param())
				}
				if e.Value() != nil && e.Value() != "" {
					msg += fmt.Sprintf(", actual: '%v'", e.Value())
				}
				msgs = append(msgs, msg)
			}
			return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(msgs, "\n  "))
		}
		return fmt.Errorf("configuration validation error: %w", err)
	}

	if len(cfg.Filters) == 0 {
		return fmt.Errorf("no filters configured: provide at least one keyword with price bounds")
	}
	for _, f := range cfg.Filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}

	if cfg.NotificationConfig.Email.Configured() && !strings.Contains(cfg.NotificationConfig.Email.Username, "@") {
		return fmt.Errorf("email username %q must be a full address", cfg.NotificationConfig.Email.Username)
	}

	if cfg.StorageConfig.SeenStoreBackend == "sqlite" && cfg.StorageConfig.SeenStoreDBPath == "" {
		return fmt.Errorf("seen_store_db_path is required when the sqlite seen-store backend is selected")
	}

	return nil
}
