package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// GormStore is the gorm-backed Store.
type GormStore struct {
	db     *gorm.DB
	txOpts *sql.TxOptions

	users      *UserRepository
	categories *CategoryRepository
	tasks      *TaskRepository
	notes      *NoteRepository
}

// NewGormStore wraps db. Transactions run serializable except on sqlite,
// where immediate locking in the DSN already serialises writers.
func NewGormStore(db *gorm.DB) *GormStore {
	var opts *sql.TxOptions
	if db.Dialector.Name() != "sqlite" {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return newGormStore(db, opts)
}

func newGormStore(db *gorm.DB, opts *sql.TxOptions) *GormStore {
	return &GormStore{
		db:         db,
		txOpts:     opts,
		users:      NewUserRepository(db),
		categories: NewCategoryRepository(db),
		tasks:      NewTaskRepository(db),
		notes:      NewNoteRepository(db),
	}
}

func (s *GormStore) Users() UserRecords          { return s.users }
func (s *GormStore) Categories() CategoryRecords { return s.categories }
func (s *GormStore) Tasks() TaskRecords          { return s.tasks }
func (s *GormStore) Notes() NoteRecords          { return s.notes }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	run := func(tx *gorm.DB) error {
		return fn(newGormStore(tx, s.txOpts))
	}
	if s.txOpts == nil {
		return s.db.WithContext(ctx).Transaction(run)
	}
	return s.db.WithContext(ctx).Transaction(run, s.txOpts)
}

// DB exposes the underlying handle for lifecycle management.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}
