package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CloseDayRequest carries the cashier's physical count. Absent amounts decode
// to zero, never to an error — closing with a single tender type counted is a
// normal flow.
type CloseDayRequest struct {
	Day         string          `json:"day" validate:"required,datetime=2006-01-02"`
	CountedCash decimal.Decimal `json:"counted_cash" validate:"omitempty"`
	CountedCard decimal.Decimal `json:"counted_card" validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// MethodBreakdown is the per-tender expected amounts for one day.
// Methods other than cash/card (including unset) bucket into Other.
type MethodBreakdown struct {
	Cash  decimal.Decimal `json:"cash"`
	Card  decimal.Decimal `json:"card"`
	Other decimal.Decimal `json:"other"`
}

type ExpectedResponse struct {
	Day        string          `json:"day"`
	Total      decimal.Decimal `json:"total"`
	ByMethod   MethodBreakdown `json:"byMethod"`
	SalesCount int64           `json:"salesCount"`
}

type CountedAmounts struct {
	Cash  decimal.Decimal `json:"cash"`
	Card  decimal.Decimal `json:"card"`
	Total decimal.Decimal `json:"total"`
}

// DiffAmounts are signed: negative = shortfall, positive = surplus.
type DiffAmounts struct {
	Cash  decimal.Decimal `json:"cash"`
	Card  decimal.Decimal `json:"card"`
	Total decimal.Decimal `json:"total"`
}

type ClosureResult struct {
	Day      string           `json:"day"`
	Expected ExpectedResponse `json:"expected"`
	Counted  CountedAmounts   `json:"counted"`
	Diff     DiffAmounts      `json:"diff"`
}

type ClosureListItem struct {
	ID          uint            `json:"id"`
	Day         string          `json:"day"`
	Total       decimal.Decimal `json:"total"`
	CountedCash decimal.Decimal `json:"counted_cash"`
	CountedCard decimal.Decimal `json:"counted_card"`
	DiffCash    decimal.Decimal `json:"diff_cash"`
	DiffCard    decimal.Decimal `json:"diff_card"`
	DiffTotal   decimal.Decimal `json:"diff_total"`
	LocationID  *uint           `json:"location_id,omitempty"`
	UserID      uint            `json:"user_id"`
	CreatedAt   string          `json:"created_at"`
}
