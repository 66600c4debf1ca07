package repository

import (
	"context"

	"tillpos/internal/model"

	"gorm.io/gorm"
)

type ClosureRepository interface {
	Create(ctx context.Context, c *model.Closure) error
	List(ctx context.Context, locationID *uint, page, limit int) ([]model.Closure, int64, error)
}

type closureRepo struct{ db *gorm.DB }

func NewClosureRepository(db *gorm.DB) ClosureRepository { return &closureRepo{db: db} }

func (r *closureRepo) Create(ctx context.Context, c *model.Closure) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *closureRepo) List(ctx context.Context, locationID *uint, page, limit int) ([]model.Closure, int64, error) {
	var closures []model.Closure
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Closure{})
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("day DESC, created_at DESC").Offset(offset).Limit(limit).Find(&closures).Error
	return closures, total, err
}
