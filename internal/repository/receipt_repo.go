package repository

import (
	"context"
	"time"

	"tillpos/internal/model"

	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, rc *model.Receipt) error
	FindByID(ctx context.Context, id uint) (*model.Receipt, error)
	FindBySaleID(ctx context.Context, saleID uint) (*model.Receipt, error)
	Update(ctx context.Context, rc *model.Receipt) error
	List(ctx context.Context, page, limit int) ([]model.Receipt, int64, error)
	// ListPendingRetries returns pending receipts whose next_retry_at is due,
	// oldest first, capped at limit — consumed by the retry cron.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Receipt, error)
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) Create(ctx context.Context, rc *model.Receipt) error {
	return translate(r.db.WithContext(ctx).Create(rc).Error)
}

func (r *receiptRepo) FindByID(ctx context.Context, id uint) (*model.Receipt, error) {
	var rc model.Receipt
	if err := r.db.WithContext(ctx).Preload("Sale.Items.Product").First(&rc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rc, nil
}

func (r *receiptRepo) FindBySaleID(ctx context.Context, saleID uint) (*model.Receipt, error) {
	var rc model.Receipt
	if err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&rc).Error; err != nil {
		return nil, translate(err)
	}
	return &rc, nil
}

func (r *receiptRepo) Update(ctx context.Context, rc *model.Receipt) error {
	return translate(r.db.WithContext(ctx).Save(rc).Error)
}

func (r *receiptRepo) List(ctx context.Context, page, limit int) ([]model.Receipt, int64, error) {
	var receipts []model.Receipt
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Receipt{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&receipts).Error
	return receipts, total, err
}

func (r *receiptRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).
		Where("status = 'pending' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&receipts).Error
	return receipts, err
}
