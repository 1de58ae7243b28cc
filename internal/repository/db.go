package repository

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"productivity-tracker/internal/config"
	"productivity-tracker/internal/model"
)

// sqliteParams make sqlite enforce foreign keys and take the write lock at BEGIN.
var sqliteParams = map[string]string{
	"_foreign_keys": "1",
	"_txlock":       "immediate",
	"_busy_timeout": "5000",
}

// NewDB opens the configured database and runs migrations.
func NewDB(driver, dsn string, log logger.Interface) (*gorm.DB, error) {
	db, err := Open(driver, dsn, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects without touching the schema.
func Open(driver, dsn string, log logger.Interface) (*gorm.DB, error) {
	if log == nil {
		log = logger.Discard
	}

	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite, "":
		if dsn == "" {
			dsn = "tracker.db"
		}
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(sqliteDSN(dsn))
	case config.DriverMySQL:
		dialector = mysql.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if isMemorySQLite(dsn) {
		// Every new connection to :memory: would see an empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the tracker tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Category{}, &model.Task{}, &model.Note{}); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

// sqliteDSN appends the connection parameters the store relies on unless the DSN sets them.
func sqliteDSN(dsn string) string {
	base, rawQuery, _ := strings.Cut(dsn, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dsn
	}
	for key, value := range sqliteParams {
		if query.Get(key) == "" {
			query.Set(key, value)
		}
	}
	return base + "?" + query.Encode()
}

func isMemorySQLite(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if isMemorySQLite(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
