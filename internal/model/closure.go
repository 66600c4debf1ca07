package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Closure is the end-of-day reconciliation audit record: expected totals per
// payment method vs. what the cashier physically counted, with signed
// differences. Rows are append-only — re-closing the same day creates a new
// row rather than mutating an earlier one.
type Closure struct {
	ID  uint      `gorm:"primaryKey"`
	Day time.Time `gorm:"type:date;index;not null"`
	// ByMethod is the expected breakdown serialized as JSON: {"cash":…,"card":…,"other":…}
	ByMethod    string          `gorm:"type:jsonb;not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CountedCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CountedCard decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiffCash    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiffCard    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiffTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LocationID  *uint           `gorm:"index"`
	UserID      uint            `gorm:"not null"`
	CreatedAt   time.Time

	User     *User     `gorm:"foreignKey:UserID"`
	Location *Location `gorm:"foreignKey:LocationID"`
}
