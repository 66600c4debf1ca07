package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"
	"tillpos/internal/worker"
)

type ReceiptService interface {
	Get(ctx context.Context, id uint) (*dto.ReceiptResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.ReceiptResponse, int64, error)
	// PDFPath returns the path of a generated receipt, or an error while it is
	// still pending or failed.
	PDFPath(ctx context.Context, id uint) (string, error)
	// Regenerate re-enqueues the receipt job for a sale whose PDF failed.
	Regenerate(ctx context.Context, saleID uint) error
}

type receiptService struct {
	repo       repository.ReceiptRepository
	dispatcher *worker.Dispatcher
}

func NewReceiptService(repo repository.ReceiptRepository, dispatcher *worker.Dispatcher) ReceiptService {
	return &receiptService{repo: repo, dispatcher: dispatcher}
}

func (s *receiptService) Get(ctx context.Context, id uint) (*dto.ReceiptResponse, error) {
	rc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Receipt %d not found", id)
	}
	return receiptToResponse(rc), nil
}

func (s *receiptService) List(ctx context.Context, page, limit int) ([]dto.ReceiptResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	receipts, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, *receiptToResponse(&receipts[i]))
	}
	return out, total, nil
}

func (s *receiptService) PDFPath(ctx context.Context, id uint) (string, error) {
	rc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("Receipt %d not found", id)
	}
	if rc.Status != model.ReceiptStatusGenerated || rc.PDFPath == nil {
		return "", fmt.Errorf("Receipt %d has no generated PDF (status %s)", id, rc.Status)
	}
	return *rc.PDFPath, nil
}

func (s *receiptService) Regenerate(ctx context.Context, saleID uint) error {
	if s.dispatcher == nil {
		return errors.New("receipt queue unavailable")
	}
	return s.dispatcher.EnqueueReceipt(ctx, map[string]interface{}{
		"sale_id": saleID,
	})
}

func receiptToResponse(rc *model.Receipt) *dto.ReceiptResponse {
	return &dto.ReceiptResponse{
		ID:        rc.ID,
		SaleID:    rc.SaleID,
		Status:    rc.Status,
		PDFPath:   rc.PDFPath,
		LastError: rc.LastError,
		CreatedAt: rc.CreatedAt.UTC().Format(time.RFC3339),
	}
}
