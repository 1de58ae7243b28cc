// Package repotest provides throw-away stores for tests.
package repotest

import (
	"path/filepath"
	"testing"

	"productivity-tracker/internal/config"
	"productivity-tracker/internal/repository"
)

// NewStore returns a migrated sqlite store in a temporary directory.
func NewStore(tb testing.TB) *repository.GormStore {
	tb.Helper()

	db, err := repository.NewDB(config.DriverSQLite, filepath.Join(tb.TempDir(), "tracker.db"), nil)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test db handle: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	return repository.NewGormStore(db)
}
