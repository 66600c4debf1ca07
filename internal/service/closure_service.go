package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportMailer is what the closure service needs from the SMTP layer.
// infra.Mailer satisfies it; tests plug in stubs.
type ReportMailer interface {
	Send(to, subject, body, attachPath string) error
}

type ClosureService interface {
	GetExpected(ctx context.Context, day string, locationID *uint) (*dto.ExpectedResponse, error)
	// CloseDay persists the closure and returns the reconciliation result plus
	// whether the report email went out.
	CloseDay(ctx context.Context, userID uint, locationID *uint, req dto.CloseDayRequest) (*dto.ClosureResult, bool, error)
	ListClosures(ctx context.Context, locationID *uint, page, limit int) ([]dto.ClosureListItem, int64, error)
}

type closureService struct {
	closureRepo repository.ClosureRepository
	saleRepo    repository.SaleRepository
	mailer      ReportMailer
	reportEmail string
	storeName   string
}

func NewClosureService(
	closureRepo repository.ClosureRepository,
	saleRepo repository.SaleRepository,
	mailer ReportMailer,
	reportEmail string,
	storeName string,
) ClosureService {
	return &closureService{
		closureRepo: closureRepo,
		saleRepo:    saleRepo,
		mailer:      mailer,
		reportEmail: reportEmail,
		storeName:   storeName,
	}
}

func (s *closureService) GetExpected(ctx context.Context, day string, locationID *uint) (*dto.ExpectedResponse, error) {
	dayTime, err := parseDay(day)
	if err != nil {
		return nil, err
	}
	return s.expectedFor(ctx, dayTime, locationID)
}

// expectedFor folds the per-method aggregates into the cash/card/other
// breakdown. A day with no sales yields all zeros, which is a valid closure.
func (s *closureService) expectedFor(ctx context.Context, day time.Time, locationID *uint) (*dto.ExpectedResponse, error) {
	rows, err := s.saleRepo.AggregateDay(ctx, day, locationID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ExpectedResponse{Day: day.Format("2006-01-02")}
	for _, row := range rows {
		switch strings.ToLower(row.Method) {
		case "cash":
			resp.ByMethod.Cash = resp.ByMethod.Cash.Add(row.Total)
		case "card":
			resp.ByMethod.Card = resp.ByMethod.Card.Add(row.Total)
		default:
			resp.ByMethod.Other = resp.ByMethod.Other.Add(row.Total)
		}
		resp.Total = resp.Total.Add(row.Total)
		resp.SalesCount += row.Count
	}
	return resp, nil
}

func (s *closureService) CloseDay(ctx context.Context, userID uint, locationID *uint, req dto.CloseDayRequest) (*dto.ClosureResult, bool, error) {
	dayTime, err := parseDay(req.Day)
	if err != nil {
		return nil, false, err
	}

	expected, err := s.expectedFor(ctx, dayTime, locationID)
	if err != nil {
		return nil, false, err
	}

	counted := dto.CountedAmounts{
		Cash:  req.CountedCash,
		Card:  req.CountedCard,
		Total: req.CountedCash.Add(req.CountedCard),
	}
	// Signed: counted minus expected. Cash "other" sales have no counted
	// counterpart, so diff.total uses the cash+card expectation only.
	diff := dto.DiffAmounts{
		Cash:  counted.Cash.Sub(expected.ByMethod.Cash),
		Card:  counted.Card.Sub(expected.ByMethod.Card),
		Total: counted.Total.Sub(expected.ByMethod.Cash.Add(expected.ByMethod.Card)),
	}

	byMethodJSON, err := json.Marshal(expected.ByMethod)
	if err != nil {
		return nil, false, err
	}

	// Append-only: closing the same day twice records two rows. The later row
	// supersedes the earlier one for reporting, the earlier one stays as an
	// audit trail.
	closure := &model.Closure{
		Day:         dayTime,
		ByMethod:    string(byMethodJSON),
		Total:       expected.Total,
		CountedCash: counted.Cash,
		CountedCard: counted.Card,
		DiffCash:    diff.Cash,
		DiffCard:    diff.Card,
		DiffTotal:   diff.Total,
		LocationID:  locationID,
		UserID:      userID,
	}
	if err := s.closureRepo.Create(ctx, closure); err != nil {
		return nil, false, err
	}

	result := &dto.ClosureResult{
		Day:      expected.Day,
		Expected: *expected,
		Counted:  counted,
		Diff:     diff,
	}

	// The closure row is already committed; the email is a courtesy copy and
	// its failure must never fail the request.
	sent := false
	if s.mailer != nil && s.reportEmail != "" {
		subject := fmt.Sprintf("%s — cash closure %s", s.storeName, expected.Day)
		if err := s.mailer.Send(s.reportEmail, subject, closureReportBody(result, s.storeName), ""); err != nil {
			log.Warn().Err(err).Str("day", expected.Day).Msg("closure report email failed")
		} else {
			sent = true
		}
	}

	return result, sent, nil
}

func (s *closureService) ListClosures(ctx context.Context, locationID *uint, page, limit int) ([]dto.ClosureListItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	closures, total, err := s.closureRepo.List(ctx, locationID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.ClosureListItem, 0, len(closures))
	for _, c := range closures {
		items = append(items, dto.ClosureListItem{
			ID:          c.ID,
			Day:         c.Day.Format("2006-01-02"),
			Total:       c.Total,
			CountedCash: c.CountedCash,
			CountedCard: c.CountedCard,
			DiffCash:    c.DiffCash,
			DiffCard:    c.DiffCard,
			DiffTotal:   c.DiffTotal,
			LocationID:  c.LocationID,
			UserID:      c.UserID,
			CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return items, total, nil
}

func parseDay(day string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q, expected YYYY-MM-DD", day)
	}
	return t, nil
}

func closureReportBody(r *dto.ClosureResult, storeName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cash closure for %s — %s\n\n", storeName, r.Day)
	fmt.Fprintf(&b, "Sales: %d, total %s\n\n", r.Expected.SalesCount, r.Expected.Total.StringFixed(2))
	fmt.Fprintf(&b, "            expected   counted    diff\n")
	fmt.Fprintf(&b, "cash        %8s  %8s  %8s\n", r.Expected.ByMethod.Cash.StringFixed(2), r.Counted.Cash.StringFixed(2), r.Diff.Cash.StringFixed(2))
	fmt.Fprintf(&b, "card        %8s  %8s  %8s\n", r.Expected.ByMethod.Card.StringFixed(2), r.Counted.Card.StringFixed(2), r.Diff.Card.StringFixed(2))
	fmt.Fprintf(&b, "other       %8s         -         -\n", r.Expected.ByMethod.Other.StringFixed(2))
	fmt.Fprintf(&b, "total       %8s  %8s  %8s\n", r.Expected.Total.StringFixed(2), r.Counted.Total.StringFixed(2), r.Diff.Total.StringFixed(2))
	return b.String()
}
