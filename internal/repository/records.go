package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// records implements Records[T] on top of gorm.
type records[T any] struct {
	db      *gorm.DB
	name    string
	preload []string
}

func (r records[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, assoc := range r.preload {
		q = q.Preload(assoc)
	}
	return q
}

func (r records[T]) Save(ctx context.Context, v *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error; err != nil {
		return fmt.Errorf("save %s: %w", r.name, translate(err))
	}
	return nil
}

func (r records[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := r.query(ctx).First(&v, id).Error; err != nil {
		return nil, fmt.Errorf("find %s %d: %w", r.name, id, translate(err))
	}
	return &v, nil
}

func (r records[T]) FindAll(ctx context.Context) ([]T, error) {
	var list []T
	if err := r.query(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, translate(err))
	}
	return list, nil
}

func (r records[T]) FindPage(ctx context.Context, req PageRequest) (Page[T], error) {
	req = req.Normalize()
	page := Page[T]{Page: req.Page, Size: req.Size}

	if err := r.db.WithContext(ctx).Model(new(T)).Count(&page.Total).Error; err != nil {
		return page, fmt.Errorf("count %s: %w", r.name, translate(err))
	}
	if err := r.query(ctx).Order("id ASC").Offset(req.Offset()).Limit(req.Size).Find(&page.Items).Error; err != nil {
		return page, fmt.Errorf("page %s: %w", r.name, translate(err))
	}
	return page, nil
}

func (r records[T]) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r records[T]) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", r.name, id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s %d: %w", r.name, id, ErrNotFound)
	}
	return nil
}

func (r records[T]) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", r.name, translate(err))
	}
	return count > 0, nil
}

// translate maps gorm's driver-neutral errors onto the store's own.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	default:
		return err
	}
}
