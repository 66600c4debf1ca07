package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"
	"tillpos/internal/worker"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CompleteSale(ctx context.Context, userID uint, locationID *uint, req dto.CompleteSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uint) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, locationID *uint, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CompleteSale ──────────────────────────────────────────────────────────────
// One ACID transaction per sale:
//   1. Re-read every product INSIDE the tx; validate existence and stock,
//      accumulating the computed total. Fail fast on the first violation.
//   2. finalTotal = override_total when the caller supplied one, else the sum.
//   3. Insert the sale row (cash tenders carry cash_received / change_due).
//   4. Per item: decrement stock with a conditional write (qty >= requested,
//      affected-row check) and insert the line with the price snapshot.
//   5. Commit. Any failure rolls everything back — no partial stock
//      decrement, no orphan sale row.
//
// The conditional write is what makes two concurrent sales of the same
// product serialize safely: under read-committed both can pass the read
// check, but only one decrement wins when combined demand exceeds stock.

type resolvedItem struct {
	productID uint
	name      string
	price     decimal.Decimal
	qty       int
}

func (s *saleService) CompleteSale(ctx context.Context, userID uint, locationID *uint, req dto.CompleteSaleRequest) (*dto.SaleResponse, error) {
	method := strings.ToLower(strings.TrimSpace(req.Payment.Method))

	var sale model.Sale
	var resolved []resolvedItem

	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		resolved = resolved[:0]
		computed := decimal.Zero

		for _, it := range req.Items {
			p, err := s.productRepo.FindByIDTx(tx, it.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domainErrorf(repository.ErrNotFound, "Product %d not found", it.ProductID)
				}
				return err
			}
			if p.Qty < it.Qty {
				return domainErrorf(repository.ErrInsufficientStock, "Insufficient stock for %s", p.Name)
			}
			computed = computed.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
			resolved = append(resolved, resolvedItem{
				productID: p.ID,
				name:      p.Name,
				price:     p.Price,
				qty:       it.Qty,
			})
		}

		// The override substitutes the price sum entirely — a deliberate
		// escape hatch for client-side discounts, at the cost of losing
		// server-side total validation.
		finalTotal := computed
		if req.OverrideTotal != nil {
			finalTotal = *req.OverrideTotal
		}

		sale = model.Sale{
			Total:      finalTotal,
			UserID:     userID,
			LocationID: locationID,
		}
		if method != "" {
			m := method
			sale.PaymentMethod = &m
		}
		// Only cash carries received/change. The processor does not verify
		// that cash_received covers the total; that check belongs to the
		// register UI.
		if method == "cash" && req.Payment.CashReceived != nil {
			received := *req.Payment.CashReceived
			change := received.Sub(finalTotal)
			sale.CashReceived = &received
			sale.ChangeDue = &change
		}

		if err := s.saleRepo.CreateTx(tx, &sale); err != nil {
			return err
		}

		for i := range resolved {
			r := &resolved[i]
			if err := s.productRepo.DecrementStockTx(tx, r.productID, r.qty); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					// The per-line read check passed, so this means the same
					// id appeared twice with compounding decrements, or a
					// concurrent sale drained the stock first.
					return domainErrorf(repository.ErrInsufficientStock, "Insufficient stock for %s", r.name)
				}
				return err
			}
			item := model.SaleItem{
				SaleID:    sale.ID,
				ProductID: r.productID,
				Qty:       r.qty,
				Price:     r.price, // snapshot — never re-read for receipts
			}
			if err := s.saleRepo.CreateItemTx(tx, &item); err != nil {
				return err
			}
			sale.Items = append(sale.Items, item)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort printable receipt — the sale is the durable fact of record,
	// the PDF copy is a convenience artifact. Fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, map[string]interface{}{
			"sale_id": sale.ID,
		})
	}

	resp := saleToResponse(&sale)
	// Enrich items with product names from the resolved slice — the freshly
	// created rows have no preloaded association.
	for i, r := range resolved {
		resp.Items[i].Name = r.name
	}
	return resp, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uint) (*dto.SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domainErrorf(repository.ErrNotFound, "Sale %d not found", id)
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, locationID *uint, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.saleRepo.List(ctx, locationID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID,
			Name:      name,
			Qty:       item.Qty,
			Price:     item.Price,
			Subtotal:  item.Price.Mul(decimal.NewFromInt(int64(item.Qty))),
		})
	}
	method := "other"
	if s.PaymentMethod != nil {
		method = *s.PaymentMethod
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		Total:         s.Total,
		PaymentMethod: method,
		CashReceived:  s.CashReceived,
		ChangeDue:     s.ChangeDue,
		LocationID:    s.LocationID,
		Items:         items,
		CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
