package service

import (
	"context"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/repository"

	"github.com/shopspring/decimal"
)

type AnalyticsService interface {
	Summary(ctx context.Context, filter dto.AnalyticsFilter, locationID *uint) (*dto.SummaryResponse, error)
	TopProducts(ctx context.Context, filter dto.AnalyticsFilter, locationID *uint) ([]dto.TopProduct, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

// resolveRange defaults to the trailing 7 days ending today.
func resolveRange(filter dto.AnalyticsFilter) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -6)
	if filter.To != "" {
		t, err := parseDay(filter.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if filter.From != "" {
		t, err := parseDay(filter.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	return from, to, nil
}

func (s *analyticsService) Summary(ctx context.Context, filter dto.AnalyticsFilter, locationID *uint) (*dto.SummaryResponse, error) {
	from, to, err := resolveRange(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.RevenueByDay(ctx, from, to, locationID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SummaryResponse{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
		Days: make([]dto.DailyRevenue, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Revenue = resp.Revenue.Add(row.Revenue)
		resp.SalesCount += row.Count
		resp.Days = append(resp.Days, dto.DailyRevenue{
			Day:        row.Day.Format("2006-01-02"),
			Revenue:    row.Revenue,
			SalesCount: row.Count,
		})
	}
	if resp.SalesCount > 0 {
		resp.AvgTicket = resp.Revenue.Div(decimal.NewFromInt(resp.SalesCount)).Round(2)
	}
	return resp, nil
}

func (s *analyticsService) TopProducts(ctx context.Context, filter dto.AnalyticsFilter, locationID *uint) ([]dto.TopProduct, error) {
	from, to, err := resolveRange(filter)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	rows, err := s.repo.TopProducts(ctx, from, to, locationID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			QtySold:   row.QtySold,
			Revenue:   row.Revenue,
		})
	}
	return out, nil
}
