package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"productivity-tracker/internal/model"
)

// NoteRepository handles CRUD for notes. Reads preload the owning category.
type NoteRepository struct {
	records[model.Note]
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{records[model.Note]{db: db, name: "note", preload: []string{"Category"}}}
}

func (r *NoteRepository) FindByCategoryID(ctx context.Context, categoryID uint) ([]model.Note, error) {
	var notes []model.Note
	if err := r.query(ctx).Where("category_id = ?", categoryID).
		Order("created_at DESC, id DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes of category %d: %w", categoryID, translate(err))
	}
	return notes, nil
}

func (r *NoteRepository) ExistsByCategoryID(ctx context.Context, categoryID uint) (bool, error) {
	return r.exists(ctx, "category_id = ?", categoryID)
}
