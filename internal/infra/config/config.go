package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL      string
	HTTPAddr         string
	LogLevel         string
	Environment      string
	CronSpecSnapshot string // Periodic result-snapshot report generation
	TelegramToken    string // Optional; empty disables the notifier
	AdminTelegramID  int64  // Chat that receives report outcome notifications
	SchedulerEnabled bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecSnapshot = os.Getenv("CRON_SPEC_SNAPSHOT_REPORT")
	if cfg.CronSpecSnapshot == "" {
		cfg.CronSpecSnapshot = "0 6 * * *" // Default: 6:00 AM daily
	}

	schedulerEnabledStr := os.Getenv("SCHEDULER_ENABLED")
	if schedulerEnabledStr == "" {
		cfg.SchedulerEnabled = true
	} else {
		enabled, err := strconv.ParseBool(schedulerEnabledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
		}
		cfg.SchedulerEnabled = enabled
	}

	// The telegram notifier is optional: both values must be present to
	// enable it.
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if cfg.TelegramToken != "" {
		if adminIDStr == "" {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set but TELEGRAM_TOKEN is")
		}
		adminID, err := strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = adminID
	}

	return cfg, nil
}
