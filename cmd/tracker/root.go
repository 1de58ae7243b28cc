package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"productivity-tracker/internal/config"
	"productivity-tracker/internal/logger"
)

var (
	dbDriver string
	dbURL    string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Personal productivity tracker",
	Long: `Keeps tasks and notes filed under categories and serves them over a JSON API
and an optional Telegram bot. Settings come from the environment or a .env file.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: sqlite, mysql or postgres (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database DSN (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return applyOverrides(cfg)
}

func applyOverrides(cfg config.Config) (config.Config, error) {
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Path: cfg.LogFile})
}
