package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"productivity-tracker/internal/model"
)

// CategoryRepository manages categories.
type CategoryRepository struct {
	records[model.Category]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{records[model.Category]{db: db, name: "category"}}
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, translate(err))
	}
	return &category, nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.exists(ctx, "name = ? AND id <> ?", name, excludeID)
}

func (r *CategoryRepository) ExistsByUserID(ctx context.Context, userID, excludeID uint) (bool, error) {
	return r.exists(ctx, "user_id = ? AND id <> ?", userID, excludeID)
}
