package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name   string
	UserID *uint
}

// CategoryService owns the category lifecycle, including the deletion guard.
type CategoryService struct {
	store repository.Store
}

func NewCategoryService(store repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.store.Categories().FindAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return category, nil
}

// ListTasks returns the tasks filed under a category, newest first.
func (s *CategoryService) ListTasks(ctx context.Context, id uint) ([]model.Task, error) {
	var tasks []model.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireCategory(ctx, tx.Categories(), id); err != nil {
			return err
		}
		var err error
		tasks, err = tx.Tasks().FindByCategoryID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListNotes returns the notes filed under a category, newest first.
func (s *CategoryService) ListNotes(ctx context.Context, id uint) ([]model.Note, error) {
	var notes []model.Note
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireCategory(ctx, tx.Categories(), id); err != nil {
			return err
		}
		var err error
		notes, err = tx.Notes().FindByCategoryID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, required("name")
	}

	category := &model.Category{Name: name, UserID: input.UserID}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := checkCategory(ctx, tx, 0, name, input.UserID); err != nil {
			return err
		}
		return saveCategory(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, required("name")
	}

	var category *model.Category
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		category, err = tx.Categories().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "category", id)
		}
		if err := checkCategory(ctx, tx, id, name, input.UserID); err != nil {
			return err
		}
		category.Name = name
		category.UserID = input.UserID
		return saveCategory(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category only when no task or note references it.
// The check and the delete share one transaction.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireCategory(ctx, tx.Categories(), id); err != nil {
			return err
		}

		hasTasks, err := tx.Tasks().ExistsByCategoryID(ctx, id)
		if err != nil {
			return err
		}
		hasNotes, err := tx.Notes().ExistsByCategoryID(ctx, id)
		if err != nil {
			return err
		}
		if hasTasks || hasNotes {
			return &CategoryInUseError{ID: id, Tasks: hasTasks, Notes: hasNotes}
		}

		if err := tx.Categories().DeleteByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKey) {
				return &CategoryInUseError{ID: id}
			}
			return notFound(err, "category", id)
		}
		return nil
	})
}

// checkCategory enforces name uniqueness and exclusive user ownership.
// excludeID is the category being updated, zero on create.
func checkCategory(ctx context.Context, tx repository.Store, excludeID uint, name string, userID *uint) error {
	taken, err := tx.Categories().ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &ConflictError{Entity: "category", Field: "name", Value: name}
	}

	if userID == nil {
		return nil
	}
	ok, err := tx.Users().ExistsByID(ctx, *userID)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: "user", ID: *userID}
	}
	owned, err := tx.Categories().ExistsByUserID(ctx, *userID, excludeID)
	if err != nil {
		return err
	}
	if owned {
		return &ConflictError{Entity: "category", Field: "userId", Value: strconv.FormatUint(uint64(*userID), 10)}
	}
	return nil
}

func saveCategory(ctx context.Context, tx repository.Store, category *model.Category) error {
	err := tx.Categories().Save(ctx, category)
	if errors.Is(err, repository.ErrDuplicate) {
		return &ConflictError{Entity: "category", Field: "name", Value: category.Name}
	}
	return err
}

// requireCategory is the existence check Task and Note writes rely on.
func requireCategory(ctx context.Context, categories repository.CategoryRecords, id uint) error {
	ok, err := categories.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Entity: "category", ID: id}
	}
	return nil
}

// requireCategoryRef validates an optional category reference.
func requireCategoryRef(ctx context.Context, categories repository.CategoryRecords, id *uint) error {
	if id == nil {
		return nil
	}
	return requireCategory(ctx, categories, *id)
}

// notFound turns a store miss into a NotFoundError naming the entity.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// refError maps a foreign key failure on write back to the missing category.
func refError(err error, categoryID *uint) error {
	if categoryID != nil && errors.Is(err, repository.ErrForeignKey) {
		return &NotFoundError{Entity: "category", ID: *categoryID}
	}
	return err
}
