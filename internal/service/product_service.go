package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const priceCacheTTL = 5 * time.Minute

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uint) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) (*dto.ProductResponse, error)
	// PriceCheck serves the public price-by-UPC lookup, Redis-cached.
	PriceCheck(ctx context.Context, upc string) (*dto.PriceCheckResponse, error)
	// ImportCSV upserts catalog rows from a upc,name,price,qty file.
	ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		UPC:    normalizeUPC(req.UPC),
		Name:   strings.TrimSpace(req.Name),
		Price:  req.Price,
		Qty:    req.Qty,
		Active: true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("A product with this UPC already exists")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uint) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Product %d not found", id)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Product %d not found", id)
	}

	oldUPC := p.UPC
	if req.UPC != nil {
		p.UPC = normalizeUPC(req.UPC)
	}
	if req.Name != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("A product with this UPC already exists")
		}
		return nil, err
	}

	s.invalidatePrice(ctx, oldUPC)
	s.invalidatePrice(ctx, p.UPC)
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Product %d not found", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return fmt.Errorf("Product %d has sale history and cannot be deleted", id)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("Product %d not found", id)
		}
		return err
	}
	s.invalidatePrice(ctx, p.UPC)
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, id uint, delta int) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Product %d not found", id)
	}
	if p.Qty+delta < 0 {
		return nil, fmt.Errorf("Stock for %s cannot go negative", p.Name)
	}
	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	p.Qty += delta
	return productToResponse(p), nil
}

// ── Price check (cached) ─────────────────────────────────────────────────────

func (s *productService) PriceCheck(ctx context.Context, upc string) (*dto.PriceCheckResponse, error) {
	key := "price:" + upc

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.PriceCheckResponse
			if jerr := decodePriceCache(cached, &resp); jerr == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByUPC(ctx, upc)
	if err != nil {
		return nil, fmt.Errorf("Product with UPC %s not found", upc)
	}
	resp := &dto.PriceCheckResponse{Name: p.Name, Price: p.Price, Qty: p.Qty}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, encodePriceCache(resp), priceCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("upc", upc).Msg("price cache write failed")
		}
	}
	return resp, nil
}

func (s *productService) invalidatePrice(ctx context.Context, upc *string) {
	if s.rdb == nil || upc == nil || *upc == "" {
		return
	}
	if err := s.rdb.Del(ctx, "price:"+*upc).Err(); err != nil {
		log.Warn().Err(err).Str("upc", *upc).Msg("price cache invalidation failed")
	}
}

// The cache value is name|price|qty. Prices never contain '|'.
func encodePriceCache(r *dto.PriceCheckResponse) string {
	return r.Name + "|" + r.Price.StringFixed(2) + "|" + strconv.Itoa(r.Qty)
}

func decodePriceCache(v string, out *dto.PriceCheckResponse) error {
	parts := strings.SplitN(v, "|", 3)
	if len(parts) != 3 {
		return fmt.Errorf("malformed cache entry")
	}
	price, err := decimal.NewFromString(parts[1])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(parts[2])
	if err != nil {
		return err
	}
	out.Name = parts[0]
	out.Price = price
	out.Qty = qty
	return nil
}

// ── CSV import ───────────────────────────────────────────────────────────────

// ImportCSV expects a header row (upc,name,price,qty). Rows with a UPC that
// already exists update name/price and add the qty as incoming stock; rows
// without a match (or without a UPC) create new products. The import is
// best-effort per row — one bad line does not abort the batch.
func (s *productService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("empty or unreadable CSV")
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimSpace(header[0]), "upc") {
		return nil, fmt.Errorf("unexpected CSV header, want upc,name,price,qty")
	}

	result := &dto.ImportResult{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if len(rec) < 3 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: want at least upc,name,price", line))
			continue
		}

		upc := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		price, perr := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if name == "" || perr != nil || price.IsNegative() {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid name or price", line))
			continue
		}
		qty := 0
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			q, qerr := strconv.Atoi(strings.TrimSpace(rec[3]))
			if qerr != nil || q < 0 {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid qty", line))
				continue
			}
			qty = q
		}

		if upc != "" {
			if existing, ferr := s.repo.FindByUPC(ctx, upc); ferr == nil {
				existing.Name = name
				existing.Price = price
				existing.Qty += qty
				if uerr := s.repo.Update(ctx, existing); uerr != nil {
					result.Skipped++
					result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, uerr))
					continue
				}
				s.invalidatePrice(ctx, existing.UPC)
				result.Updated++
				continue
			}
		}

		p := &model.Product{Name: name, Price: price, Qty: qty, Active: true}
		if upc != "" {
			p.UPC = &upc
		}
		if cerr := s.repo.Create(ctx, p); cerr != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, cerr))
			continue
		}
		result.Created++
	}
	return result, nil
}

func normalizeUPC(upc *string) *string {
	if upc == nil {
		return nil
	}
	v := strings.TrimSpace(*upc)
	if v == "" {
		return nil
	}
	return &v
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		UPC:       p.UPC,
		Name:      p.Name,
		Price:     p.Price,
		Qty:       p.Qty,
		Active:    p.Active,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
