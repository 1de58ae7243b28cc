package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"productivity-tracker/internal/model"
)

// TaskRepository handles CRUD for tasks. Reads preload the owning category.
type TaskRepository struct {
	records[model.Task]
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{records[model.Task]{db: db, name: "task", preload: []string{"Category"}}}
}

func (r *TaskRepository) FindByCategoryID(ctx context.Context, categoryID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.query(ctx).Where("category_id = ?", categoryID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks of category %d: %w", categoryID, translate(err))
	}
	return tasks, nil
}

func (r *TaskRepository) ExistsByCategoryID(ctx context.Context, categoryID uint) (bool, error) {
	return r.exists(ctx, "category_id = ?", categoryID)
}

func (r *TaskRepository) FindOpenDueBefore(ctx context.Context, t time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.query(ctx).Where("completed = ? AND due_date < ?", false, t).
		Order("due_date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list open tasks: %w", translate(err))
	}
	return tasks, nil
}
