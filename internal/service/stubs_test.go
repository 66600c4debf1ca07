package service_test

import (
	"context"
	"errors"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Product repository stub ───────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product)}
}

func (r *stubProductRepo) seed(name string, upc string, price float64, qty int) *model.Product {
	r.nextID++
	p := &model.Product{
		ID:     r.nextID,
		Name:   name,
		Price:  decimal.NewFromFloat(price),
		Qty:    qty,
		Active: true,
	}
	if upc != "" {
		u := upc
		p.UPC = &u
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.UPC != nil {
		for _, existing := range r.products {
			if existing.UPC != nil && *existing.UPC == *p.UPC {
				return repository.ErrDuplicate
			}
		}
	}
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByUPC(_ context.Context, upc string) (*model.Product, error) {
	for _, p := range r.products {
		if p.UPC != nil && *p.UPC == upc && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uint, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Qty += delta
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uint, qty int) error {
	p, ok := r.products[id]
	if !ok || p.Qty < qty {
		return repository.ErrInsufficientStock
	}
	p.Qty -= qty
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sale repository stub ──────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales   map[uint]*model.Sale
	items   []model.SaleItem
	aggRows []repository.DayAggregate
	nextID  uint
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uint]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) CreateItemTx(_ *gorm.DB, item *model.SaleItem) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uint) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	for _, item := range r.items {
		if item.SaleID == id {
			cp.Items = append(cp.Items, item)
		}
	}
	return &cp, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ *uint, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) AggregateDay(_ context.Context, _ time.Time, _ *uint) ([]repository.DayAggregate, error) {
	return r.aggRows, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Closure repository stub ───────────────────────────────────────────────────

type stubClosureRepo struct {
	closures []model.Closure
}

func (r *stubClosureRepo) Create(_ context.Context, c *model.Closure) error {
	c.ID = uint(len(r.closures) + 1)
	c.CreatedAt = time.Now()
	r.closures = append(r.closures, *c)
	return nil
}

func (r *stubClosureRepo) List(_ context.Context, _ *uint, _, _ int) ([]model.Closure, int64, error) {
	return r.closures, int64(len(r.closures)), nil
}

var _ repository.ClosureRepository = (*stubClosureRepo)(nil)

// ── Mailer stub ───────────────────────────────────────────────────────────────

type stubMailer struct {
	sent []string // subjects, in order
	fail bool
}

func (m *stubMailer) Send(_, subject, _, _ string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, subject)
	return nil
}
