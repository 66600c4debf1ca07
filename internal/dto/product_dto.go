package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	UPC    string `form:"upc"`
	Name   string `form:"name"`
	Active string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	UPC   *string         `json:"upc"`
	Name  string          `json:"name"  validate:"required,min=1"`
	Price decimal.Decimal `json:"price" validate:"min=0"`
	Qty   int             `json:"qty"   validate:"min=0"`
}

type UpdateProductRequest struct {
	UPC   *string          `json:"upc"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price" validate:"omitempty,min=0"`
}

type AdjustStockRequest struct {
	// Delta is signed: positive = stock in, negative = stock out.
	Delta int `json:"delta" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID        uint            `json:"id"`
	UPC       *string         `json:"upc"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is served by the public price endpoint (Redis-cached).
type PriceCheckResponse struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

// ImportResult summarizes a CSV catalog import.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
