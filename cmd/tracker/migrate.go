package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"productivity-tracker/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := repository.NewDB(cfg.DBDriver, cfg.DatabaseURL, log.Gorm())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("schema is up to date")
	return nil
}
