package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the financial record of a completed transaction. It is created
// exactly once and never updated afterwards — there is no update path through
// the API, and corrections are handled by compensating records, not edits.
//
// PaymentMethod is free-form; nil or anything other than "cash"/"card" is
// bucketed as "other" by the closure aggregation. CashReceived and ChangeDue
// are populated only for cash payments.
type Sale struct {
	ID            uint            `gorm:"primaryKey"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod *string         `gorm:"type:varchar(20)"`
	CashReceived  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ChangeDue     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	LocationID    *uint            `gorm:"index"`
	UserID        uint             `gorm:"index;not null"`
	CreatedAt     time.Time        `gorm:"index"`

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	User     *User      `gorm:"foreignKey:UserID"`
	Location *Location  `gorm:"foreignKey:LocationID"`
}

// SaleItem is one line of a sale. Price is the unit price captured at sale
// time — copied, not re-read — so historical receipts stay accurate when the
// product's price changes later. The product FK restricts deletion: a product
// with sale history cannot be removed.
type SaleItem struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"index;not null"`
	ProductID uint            `gorm:"index;not null"`
	Qty       int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}
