package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DBDriver       string
	DatabaseURL    string
	HTTPAddr       string
	CORSOrigin     string
	TelegramToken  string
	ReportChatID   int64
	ReportInterval time.Duration
	ReportAt       string
	SessionTTL     time.Duration
	LogLevel       string
	LogFormat      string
	LogFile        string
}

// BotEnabled reports whether a Telegram token was configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// Load reads an optional .env file and then environment variables with sane defaults.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		DBDriver:      strings.ToLower(env("DB_DRIVER")),
		DatabaseURL:   env("DATABASE_URL"),
		HTTPAddr:      env("HTTP_ADDR"),
		CORSOrigin:    env("CORS_ORIGIN"),
		TelegramToken: env("TELEGRAM_TOKEN"),
		ReportAt:      env("REPORT_AT"),
		LogLevel:      env("LOG_LEVEL"),
		LogFormat:     env("LOG_FORMAT"),
		LogFile:       env("LOG_FILE"),
	}

	var err error
	if cfg.ReportInterval, err = parseHours(env("REPORT_INTERVAL_HOURS")); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL, err = parseMinutes(env("BOT_SESSION_TTL_MINUTES")); err != nil {
		return cfg, err
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverSQLite
	}
	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverSQLite {
		cfg.DatabaseURL = "tracker.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:3000"
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = 5 * time.Hour
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if raw := env("REPORT_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("REPORT_CHAT_ID must be a number: %w", err)
		}
		cfg.ReportChatID = id
	}

	return cfg, cfg.Validate()
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for %s", c.DBDriver)
	}
	if c.ReportAt != "" {
		if _, err := time.Parse("15:04", c.ReportAt); err != nil {
			return fmt.Errorf("REPORT_AT must be HH:MM, got %q", c.ReportAt)
		}
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseHours(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("REPORT_INTERVAL_HOURS must be a positive number of hours, got %q", raw)
	}
	return hours, nil
}

func parseMinutes(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("BOT_SESSION_TTL_MINUTES must be a positive number of minutes, got %q", raw)
	}
	return time.Duration(minutes) * time.Minute, nil
}
