package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,min=1"`
	Qty       int  `json:"qty"        validate:"required,min=1"`
}

type PaymentRequest struct {
	// Method is free-form; only "cash" carries CashReceived.
	Method string `json:"method"`
	// CashReceived is what the customer handed over — stored verbatim.
	CashReceived *decimal.Decimal `json:"cash_received" validate:"omitempty"`
}

type CompleteSaleRequest struct {
	// Items may be empty: the schema permits a degenerate zero-item sale.
	Items   []SaleItemRequest `json:"items"   validate:"dive"`
	Payment PaymentRequest    `json:"payment"`
	// OverrideTotal substitutes the computed price sum when present — an
	// escape hatch for client-side discounts; server-side total validation
	// is forfeited when used.
	OverrideTotal *decimal.Decimal `json:"override_total" validate:"omitempty"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Day   string `form:"day"` // YYYY-MM-DD; empty = today
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            uint               `json:"id"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	CashReceived  *decimal.Decimal   `json:"cash_received,omitempty"`
	ChangeDue     *decimal.Decimal   `json:"change_due,omitempty"`
	LocationID    *uint              `json:"location_id,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
