package repository

import (
	"context"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DayAggregate is one payment method's slice of a day's completed sales.
type DayAggregate struct {
	Method string
	Total  decimal.Decimal
	Count  int64
}

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	CreateItemTx(tx *gorm.DB, item *model.SaleItem) error
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	List(ctx context.Context, locationID *uint, filter dto.SaleFilter) ([]model.Sale, int64, error)
	// AggregateDay groups one calendar day's sales at one location by payment
	// method. NULL methods come back as "other".
	AggregateDay(ctx context.Context, day time.Time, locationID *uint) ([]DayAggregate, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return translate(tx.Omit("Items").Create(s).Error)
}

func (r *saleRepo) CreateItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return translate(tx.Create(item).Error)
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&s, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, locationID *uint, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}
	if filter.Day != "" {
		q = q.Where("DATE(created_at) = ?", filter.Day)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) AggregateDay(ctx context.Context, day time.Time, locationID *uint) ([]DayAggregate, error) {
	var rows []DayAggregate

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(payment_method, 'other') AS method, SUM(total) AS total, COUNT(*) AS count").
		Where("DATE(created_at) = ?", day.Format("2006-01-02")).
		Group("COALESCE(payment_method, 'other')")

	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}

	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
