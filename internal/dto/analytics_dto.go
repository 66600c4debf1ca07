package dto

import "github.com/shopspring/decimal"

// AnalyticsFilter scopes analytics queries to a date range.
type AnalyticsFilter struct {
	From  string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To    string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Limit int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// DailyRevenue is one day's aggregate in the summary series.
type DailyRevenue struct {
	Day        string          `json:"day"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int64           `json:"sales_count"`
}

type SummaryResponse struct {
	From       string          `json:"from"`
	To         string          `json:"to"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int64           `json:"sales_count"`
	AvgTicket  decimal.Decimal `json:"avg_ticket"`
	Days       []DailyRevenue  `json:"days"`
}

// TopProduct is one row of the best-sellers ranking.
type TopProduct struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	QtySold   int64           `json:"qty_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}
