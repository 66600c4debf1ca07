package service_test

import (
	"context"
	"errors"
	"testing"

	"tillpos/internal/dto"
	"tillpos/internal/repository"
	"tillpos/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSaleSvc() (service.SaleService, *stubSaleRepo, *stubProductRepo) {
	productRepo := newStubProductRepo()
	saleRepo := newStubSaleRepo()
	svc := service.NewSaleService(saleRepo, productRepo, nil)
	return svc, saleRepo, productRepo
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCompleteSale_CardSale(t *testing.T) {
	svc, saleRepo, productRepo := buildSaleSvc()
	p := productRepo.seed("Olive Oil 1L", "100000000001", 2.00, 10)

	resp, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: p.ID, Qty: 3}},
		Payment: dto.PaymentRequest{Method: "card"},
	})
	require.NoError(t, err)

	assert.Equal(t, "6", resp.Total.String())
	assert.Equal(t, "card", resp.PaymentMethod)
	assert.Nil(t, resp.CashReceived)
	assert.Equal(t, 7, productRepo.products[p.ID].Qty)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Olive Oil 1L", resp.Items[0].Name)
	assert.Equal(t, "6", resp.Items[0].Subtotal.String())

	stored, err := saleRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "6", stored.Total.String())
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Qty)
}

func TestCompleteSale_InsufficientStock(t *testing.T) {
	svc, saleRepo, productRepo := buildSaleSvc()
	p := productRepo.seed("Sparkling Water", "100000000002", 1.50, 2)

	_, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: p.ID, Qty: 5}},
		Payment: dto.PaymentRequest{Method: "cash"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock for Sparkling Water")

	// Nothing persisted, stock untouched
	assert.Equal(t, 2, productRepo.products[p.ID].Qty)
	assert.Empty(t, saleRepo.sales)
	assert.Empty(t, saleRepo.items)
}

func TestCompleteSale_ProductNotFound(t *testing.T) {
	svc, saleRepo, _ := buildSaleSvc()

	_, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: 99, Qty: 1}},
		Payment: dto.PaymentRequest{Method: "cash"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product 99 not found")
	assert.Empty(t, saleRepo.sales)
}

func TestCompleteSale_MultiItemFailsFast(t *testing.T) {
	svc, saleRepo, productRepo := buildSaleSvc()
	a := productRepo.seed("Coffee 250g", "100000000003", 8.00, 10)
	b := productRepo.seed("Sugar 1kg", "100000000004", 2.00, 1)

	_, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: a.ID, Qty: 2},
			{ProductID: b.ID, Qty: 3}, // only 1 in stock
		},
		Payment: dto.PaymentRequest{Method: "card"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient stock for Sugar 1kg")

	// Neither product was decremented, no sale or items were written
	assert.Equal(t, 10, productRepo.products[a.ID].Qty)
	assert.Equal(t, 1, productRepo.products[b.ID].Qty)
	assert.Empty(t, saleRepo.sales)
	assert.Empty(t, saleRepo.items)
}

func TestCompleteSale_DuplicateLineCompoundsDecrement(t *testing.T) {
	svc, _, productRepo := buildSaleSvc()
	p := productRepo.seed("Tea 100g", "100000000009", 4.00, 5)

	// Each line passes the per-line read check (3 ≤ 5); only the conditional
	// decrement catches the compound demand of 6.
	_, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID, Qty: 3},
			{ProductID: p.ID, Qty: 3},
		},
		Payment: dto.PaymentRequest{Method: "card"},
	})
	require.Error(t, err)
	assert.EqualError(t, err, "Insufficient stock for Tea 100g")
	assert.True(t, errors.Is(err, repository.ErrInsufficientStock))
}

func TestCompleteSale_ErrorsCarrySentinels(t *testing.T) {
	svc, _, productRepo := buildSaleSvc()
	p := productRepo.seed("Yeast 10g", "100000000010", 0.80, 1)

	_, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: 999, Qty: 1}},
		Payment: dto.PaymentRequest{Method: "card"},
	})
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: p.ID, Qty: 2}},
		Payment: dto.PaymentRequest{Method: "card"},
	})
	assert.True(t, errors.Is(err, repository.ErrInsufficientStock))
}

func TestGetSale_NotFoundSentinel(t *testing.T) {
	svc, _, _ := buildSaleSvc()

	_, err := svc.GetSale(context.Background(), 42)
	require.Error(t, err)
	assert.EqualError(t, err, "Sale 42 not found")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestCompleteSale_CashChange(t *testing.T) {
	svc, _, productRepo := buildSaleSvc()
	p := productRepo.seed("Bread", "100000000005", 5.00, 20)

	received := dec(15.00)
	resp, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: p.ID, Qty: 2}},
		Payment: dto.PaymentRequest{Method: "cash", CashReceived: &received},
	})
	require.NoError(t, err)

	assert.Equal(t, "10", resp.Total.String())
	require.NotNil(t, resp.CashReceived)
	require.NotNil(t, resp.ChangeDue)
	assert.Equal(t, "15", resp.CashReceived.String())
	assert.Equal(t, "5", resp.ChangeDue.String())
}

func TestCompleteSale_OverrideTotal(t *testing.T) {
	svc, _, productRepo := buildSaleSvc()
	p := productRepo.seed("Cheese Wheel", "100000000006", 30.00, 5)

	override := dec(25.00)
	resp, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:         []dto.SaleItemRequest{{ProductID: p.ID, Qty: 1}},
		Payment:       dto.PaymentRequest{Method: "card"},
		OverrideTotal: &override,
	})
	require.NoError(t, err)

	// Override replaces the price sum, but line prices keep the snapshot value
	assert.Equal(t, "25", resp.Total.String())
	assert.Equal(t, "30", resp.Items[0].Price.String())
	assert.Equal(t, 4, productRepo.products[p.ID].Qty)
}

func TestCompleteSale_PriceSnapshot(t *testing.T) {
	svc, saleRepo, productRepo := buildSaleSvc()
	p := productRepo.seed("Honey 500g", "100000000007", 12.00, 8)

	resp, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: p.ID, Qty: 1}},
		Payment: dto.PaymentRequest{Method: "card"},
	})
	require.NoError(t, err)

	// Reprice the product after the sale
	productRepo.products[p.ID].Price = dec(15.00)

	stored, err := saleRepo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "12", stored.Items[0].Price.String())
}

func TestCompleteSale_EmptyItems(t *testing.T) {
	svc, saleRepo, _ := buildSaleSvc()

	resp, err := svc.CompleteSale(context.Background(), 1, nil, dto.CompleteSaleRequest{
		Payment: dto.PaymentRequest{Method: "card"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.IsZero())
	assert.Empty(t, resp.Items)
	assert.Len(t, saleRepo.sales, 1)
}

func TestCompleteSale_LocationScoped(t *testing.T) {
	svc, saleRepo, productRepo := buildSaleSvc()
	p := productRepo.seed("Milk 1L", "100000000008", 1.80, 12)

	loc := uint(3)
	resp, err := svc.CompleteSale(context.Background(), 7, &loc, dto.CompleteSaleRequest{
		Items:   []dto.SaleItemRequest{{ProductID: p.ID, Qty: 1}},
		Payment: dto.PaymentRequest{Method: "cash"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.LocationID)
	assert.Equal(t, uint(3), *resp.LocationID)

	stored := saleRepo.sales[resp.ID]
	assert.Equal(t, uint(7), stored.UserID)
	require.NotNil(t, stored.LocationID)
	assert.Equal(t, uint(3), *stored.LocationID)
}
