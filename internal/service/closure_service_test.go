package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"tillpos/internal/dto"
	"tillpos/internal/repository"
	"tillpos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClosureSvc(agg []repository.DayAggregate, mailer *stubMailer) (service.ClosureService, *stubClosureRepo) {
	saleRepo := newStubSaleRepo()
	saleRepo.aggRows = agg
	closureRepo := &stubClosureRepo{}
	// A typed nil *stubMailer must not reach the interface field.
	var m service.ReportMailer
	if mailer != nil {
		m = mailer
	}
	svc := service.NewClosureService(closureRepo, saleRepo, m, "backoffice@example.com", "Corner Store")
	return svc, closureRepo
}

func TestGetExpected_GroupsByMethod(t *testing.T) {
	svc, _ := buildClosureSvc([]repository.DayAggregate{
		{Method: "cash", Total: dec(50), Count: 4},
		{Method: "card", Total: dec(30), Count: 2},
		{Method: "other", Total: dec(5), Count: 1},
	}, nil)

	resp, err := svc.GetExpected(context.Background(), "2026-08-27", nil)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-27", resp.Day)
	assert.Equal(t, "85", resp.Total.String())
	assert.Equal(t, "50", resp.ByMethod.Cash.String())
	assert.Equal(t, "30", resp.ByMethod.Card.String())
	assert.Equal(t, "5", resp.ByMethod.Other.String())
	assert.Equal(t, int64(7), resp.SalesCount)
}

func TestGetExpected_UnknownMethodBucketsToOther(t *testing.T) {
	svc, _ := buildClosureSvc([]repository.DayAggregate{
		{Method: "voucher", Total: dec(12), Count: 1},
	}, nil)

	resp, err := svc.GetExpected(context.Background(), "2026-08-27", nil)
	require.NoError(t, err)
	assert.Equal(t, "12", resp.ByMethod.Other.String())
	assert.True(t, resp.ByMethod.Cash.IsZero())
}

func TestGetExpected_InvalidDay(t *testing.T) {
	svc, _ := buildClosureSvc(nil, nil)
	_, err := svc.GetExpected(context.Background(), "27/08/2026", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}

func TestCloseDay_Shortfall(t *testing.T) {
	mailer := &stubMailer{}
	svc, closureRepo := buildClosureSvc([]repository.DayAggregate{
		{Method: "cash", Total: dec(50), Count: 3},
		{Method: "card", Total: dec(30), Count: 2},
	}, mailer)

	result, sent, err := svc.CloseDay(context.Background(), 1, nil, dto.CloseDayRequest{
		Day:         "2026-08-27",
		CountedCash: dec(48),
		CountedCard: dec(30),
	})
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Equal(t, "80", result.Expected.Total.String())
	assert.Equal(t, "78", result.Counted.Total.String())
	assert.Equal(t, "-2", result.Diff.Cash.String())
	assert.Equal(t, "0", result.Diff.Card.String())
	assert.Equal(t, "-2", result.Diff.Total.String())

	// Audit row persisted with the serialized breakdown
	require.Len(t, closureRepo.closures, 1)
	stored := closureRepo.closures[0]
	assert.Equal(t, "-2", stored.DiffTotal.String())
	assert.Equal(t, uint(1), stored.UserID)

	var byMethod dto.MethodBreakdown
	require.NoError(t, json.Unmarshal([]byte(stored.ByMethod), &byMethod))
	assert.Equal(t, "50", byMethod.Cash.String())
	assert.Equal(t, "30", byMethod.Card.String())
}

func TestCloseDay_DiffIdentity(t *testing.T) {
	svc, _ := buildClosureSvc([]repository.DayAggregate{
		{Method: "cash", Total: dec(41.30), Count: 5},
		{Method: "card", Total: dec(77.05), Count: 6},
	}, nil)

	result, _, err := svc.CloseDay(context.Background(), 1, nil, dto.CloseDayRequest{
		Day:         "2026-08-27",
		CountedCash: dec(40.00),
		CountedCard: dec(80.00),
	})
	require.NoError(t, err)

	// diffTotal == diffCash + diffCard, signed
	assert.True(t, result.Diff.Total.Equal(result.Diff.Cash.Add(result.Diff.Card)))
	assert.Equal(t, "-1.3", result.Diff.Cash.String())
	assert.Equal(t, "2.95", result.Diff.Card.String())
}

func TestCloseDay_EmptyDay(t *testing.T) {
	svc, closureRepo := buildClosureSvc(nil, nil)

	// Counted amounts default to zero when the cashier submits nothing
	result, sent, err := svc.CloseDay(context.Background(), 2, nil, dto.CloseDayRequest{
		Day: "2026-08-27",
	})
	require.NoError(t, err)
	assert.False(t, sent) // no mailer wired

	assert.True(t, result.Expected.Total.IsZero())
	assert.True(t, result.Counted.Total.IsZero())
	assert.True(t, result.Diff.Total.IsZero())
	assert.Len(t, closureRepo.closures, 1)
}

func TestCloseDay_EmailFailureDoesNotFailClosure(t *testing.T) {
	mailer := &stubMailer{fail: true}
	svc, closureRepo := buildClosureSvc([]repository.DayAggregate{
		{Method: "cash", Total: dec(10), Count: 1},
	}, mailer)

	result, sent, err := svc.CloseDay(context.Background(), 1, nil, dto.CloseDayRequest{
		Day:         "2026-08-27",
		CountedCash: dec(10),
	})
	require.NoError(t, err)
	assert.False(t, sent)
	assert.NotNil(t, result)
	assert.Len(t, closureRepo.closures, 1)
}

func TestCloseDay_NotIdempotent(t *testing.T) {
	svc, closureRepo := buildClosureSvc([]repository.DayAggregate{
		{Method: "cash", Total: dec(20), Count: 2},
	}, nil)

	req := dto.CloseDayRequest{Day: "2026-08-27", CountedCash: dec(20)}
	_, _, err := svc.CloseDay(context.Background(), 1, nil, req)
	require.NoError(t, err)
	_, _, err = svc.CloseDay(context.Background(), 1, nil, req)
	require.NoError(t, err)

	// Closing twice records two audit rows
	assert.Len(t, closureRepo.closures, 2)
}
