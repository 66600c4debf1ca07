package repository

import (
	"context"

	"tillpos/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	FindByID(ctx context.Context, id uint) (*model.Announcement, error)
	// ListForLocation returns active announcements visible at a location:
	// global ones (location_id IS NULL) plus that location's own.
	ListForLocation(ctx context.Context, locationID *uint) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id uint) error
}

type announcementRepo struct{ db *gorm.DB }

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, a *model.Announcement) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *announcementRepo) FindByID(ctx context.Context, id uint) (*model.Announcement, error) {
	var a model.Announcement
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *announcementRepo) ListForLocation(ctx context.Context, locationID *uint) ([]model.Announcement, error) {
	var announcements []model.Announcement
	q := r.db.WithContext(ctx).Where("active = true")
	if locationID != nil {
		q = q.Where("location_id IS NULL OR location_id = ?", *locationID)
	}
	err := q.Order("created_at DESC").Find(&announcements).Error
	return announcements, err
}

func (r *announcementRepo) Update(ctx context.Context, a *model.Announcement) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

func (r *announcementRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Announcement{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
