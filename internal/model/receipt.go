package model

import "time"

const (
	ReceiptStatusPending   = "pending"
	ReceiptStatusGenerated = "generated"
	ReceiptStatusError     = "error"
)

// Receipt stores the printable PDF copy of a sale.
// Status: "pending" | "generated" | "error"
//
// The receipt is a convenience artifact, not the fact of record — generation
// runs async and failures never roll back the sale. Failed renders are
// re-attempted by the retry cron until MaxReceiptRetries, then parked.
type Receipt struct {
	ID     uint   `gorm:"primaryKey"`
	SaleID uint   `gorm:"index;not null"`
	Status string `gorm:"type:varchar(20);not null;default:'pending'"`
	// PDFPath is relative to RECEIPT_STORAGE_PATH.
	PDFPath *string `gorm:"column:pdf_path"`
	// Retry fields — used by the retry cron to re-attempt failed renders.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Sale *Sale `gorm:"foreignKey:SaleID"`
}
