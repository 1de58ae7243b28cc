package repository

import (
	"context"
	"errors"
	"time"

	"productivity-tracker/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column would be violated.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write would break a foreign key.
	ErrForeignKey = errors.New("foreign key violated")
)

// Records is the persistence contract shared by every entity kind.
type Records[T any] interface {
	Save(ctx context.Context, v *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	FindPage(ctx context.Context, req PageRequest) (Page[T], error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	DeleteByID(ctx context.Context, id uint) error
}

type UserRecords interface {
	Records[model.User]
}

type CategoryRecords interface {
	Records[model.Category]
	FindByName(ctx context.Context, name string) (*model.Category, error)
	// ExistsByName ignores the category with id excludeID, so renames to the same name pass.
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	ExistsByUserID(ctx context.Context, userID, excludeID uint) (bool, error)
}

type TaskRecords interface {
	Records[model.Task]
	// FindByCategoryID returns the newest tasks first.
	FindByCategoryID(ctx context.Context, categoryID uint) ([]model.Task, error)
	ExistsByCategoryID(ctx context.Context, categoryID uint) (bool, error)
	// FindOpenDueBefore returns incomplete tasks due before t, earliest first.
	FindOpenDueBefore(ctx context.Context, t time.Time) ([]model.Task, error)
}

type NoteRecords interface {
	Records[model.Note]
	// FindByCategoryID returns the newest notes first.
	FindByCategoryID(ctx context.Context, categoryID uint) ([]model.Note, error)
	ExistsByCategoryID(ctx context.Context, categoryID uint) (bool, error)
}

// Store groups the record collections. Transaction runs fn against a store
// bound to a single database transaction; fn's error rolls it back.
type Store interface {
	Users() UserRecords
	Categories() CategoryRecords
	Tasks() TaskRecords
	Notes() NoteRecords
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
