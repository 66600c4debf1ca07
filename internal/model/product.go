package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Qty is the on-hand stock and must never
// go negative — sales decrement it inside the sale transaction with a
// conditional update, direct edits go through stock adjustments.
type Product struct {
	ID uint `gorm:"primaryKey"`
	// UPC is optional (ad-hoc items have none) but unique when present.
	UPC       *string         `gorm:"column:upc;uniqueIndex"`
	Name      string          `gorm:"index;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Qty       int             `gorm:"not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
