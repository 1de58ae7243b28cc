package service

import (
	"context"
	"strings"
	"time"

	"productivity-tracker/internal/model"
	"productivity-tracker/internal/repository"
)

// TaskInput represents data required to create or update a task.
// Completed and DueDate are pointers so that absence can be told apart from zero.
type TaskInput struct {
	Title       string
	Description string
	Completed   *bool
	DueDate     *time.Time
	CategoryID  *uint
}

func (in TaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return required("title")
	}
	if in.Completed == nil {
		return required("completed")
	}
	if in.DueDate == nil {
		return required("dueDate")
	}
	return nil
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store repository.Store
	now   func() time.Time
}

func NewTaskService(store repository.Store) *TaskService {
	return &TaskService{store: store, now: utcNow}
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.store.Tasks().FindAll(ctx)
}

func (s *TaskService) ListPage(ctx context.Context, req repository.PageRequest) (repository.Page[model.Task], error) {
	return s.store.Tasks().FindPage(ctx, req)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := model.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Completed:   *input.Completed,
		DueDate:     *input.DueDate,
		CategoryID:  input.CategoryID,
		CreatedAt:   s.now(),
	}

	var saved *model.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireCategoryRef(ctx, tx.Categories(), input.CategoryID); err != nil {
			return err
		}
		if err := tx.Tasks().Save(ctx, &task); err != nil {
			return refError(err, input.CategoryID)
		}
		var err error
		saved, err = tx.Tasks().FindByID(ctx, task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Update overwrites every mutable field. A nil CategoryID leaves the task uncategorized.
func (s *TaskService) Update(ctx context.Context, id uint, input TaskInput) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var saved *model.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := tx.Tasks().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "task", id)
		}
		if err := requireCategoryRef(ctx, tx.Categories(), input.CategoryID); err != nil {
			return err
		}

		task.Title = strings.TrimSpace(input.Title)
		task.Description = input.Description
		task.Completed = *input.Completed
		task.DueDate = *input.DueDate
		task.CategoryID = input.CategoryID
		task.Category = nil

		if err := tx.Tasks().Save(ctx, task); err != nil {
			return refError(err, input.CategoryID)
		}
		saved, err = tx.Tasks().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Complete marks a task as done, leaving everything else untouched.
func (s *TaskService) Complete(ctx context.Context, id uint) (*model.Task, error) {
	var task *model.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		task, err = tx.Tasks().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "task", id)
		}
		if task.Completed {
			return nil
		}
		task.Completed = true
		return tx.Tasks().Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task; tasks have no dependents.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Tasks().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &NotFoundError{Entity: "task", ID: id}
		}
		return notFound(tx.Tasks().DeleteByID(ctx, id), "task", id)
	})
}

func utcNow() time.Time {
	return time.Now().UTC()
}
