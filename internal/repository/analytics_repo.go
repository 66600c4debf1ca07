package repository

import (
	"context"
	"time"

	"tillpos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueRow is one day's revenue aggregate.
type RevenueRow struct {
	Day     time.Time
	Revenue decimal.Decimal
	Count   int64
}

// TopProductRow is one product's sales ranking aggregate.
type TopProductRow struct {
	ProductID uint
	Name      string
	QtySold   int64
	Revenue   decimal.Decimal
}

type AnalyticsRepository interface {
	RevenueByDay(ctx context.Context, from, to time.Time, locationID *uint) ([]RevenueRow, error)
	TopProducts(ctx context.Context, from, to time.Time, locationID *uint, limit int) ([]TopProductRow, error)
}

type analyticsRepo struct{ db *gorm.DB }

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository { return &analyticsRepo{db: db} }

func (r *analyticsRepo) RevenueByDay(ctx context.Context, from, to time.Time, locationID *uint) ([]RevenueRow, error) {
	var rows []RevenueRow
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("DATE(created_at) AS day, SUM(total) AS revenue, COUNT(*) AS count").
		Where("DATE(created_at) BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("DATE(created_at)").
		Order("day ASC")
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepo) TopProducts(ctx context.Context, from, to time.Time, locationID *uint, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	q := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("sale_items.product_id AS product_id, products.name AS name, SUM(sale_items.qty) AS qty_sold, SUM(sale_items.qty * sale_items.price) AS revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("DATE(sales.created_at) BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Group("sale_items.product_id, products.name").
		Order("qty_sold DESC").
		Limit(limit)
	if locationID != nil {
		q = q.Where("sales.location_id = ?", *locationID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
