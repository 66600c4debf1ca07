package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the thermal-format PDF
// for a completed sale and records the outcome on the receipts table.
// Failed renders get a next_retry_at and are picked up by the retry cron.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tillpos/internal/infra"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID uint `json:"sale_id"`
}

type ReceiptWorker struct {
	receiptRepo repository.ReceiptRepository
	saleRepo    repository.SaleRepository
	dispatcher  *Dispatcher
	storagePath string
	storeName   string
	copyEmail   string // back-office address that gets a copy; empty = off
}

func NewReceiptWorker(
	receiptRepo repository.ReceiptRepository,
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	storagePath string,
	storeName string,
	copyEmail string,
) *ReceiptWorker {
	return &ReceiptWorker{
		receiptRepo: receiptRepo,
		saleRepo:    saleRepo,
		dispatcher:  dispatcher,
		storagePath: storagePath,
		storeName:   storeName,
		copyEmail:   copyEmail,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload
//  2. Fetch the sale with items
//  3. Find or create the receipt row (pending)
//  4. Render the PDF
//  5. Mark generated, or schedule a retry on failure
//  6. Optionally enqueue an email copy to the back office
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, payload.SaleID)
	if err != nil {
		log.Error().Err(err).Uint("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	// Re-enqueues for the same sale reuse the existing row.
	receipt, err := w.receiptRepo.FindBySaleID(ctx, payload.SaleID)
	if err != nil {
		receipt = &model.Receipt{SaleID: payload.SaleID, Status: model.ReceiptStatusPending}
		if err := w.receiptRepo.Create(ctx, receipt); err != nil {
			log.Error().Err(err).Uint("sale_id", payload.SaleID).Msg("receipt_worker: failed to create receipt")
			return
		}
	}

	pdfPath, pdfErr := infra.GenerateReceiptPDF(sale, w.storeName, w.storagePath)
	if pdfErr != nil {
		receipt.RetryCount++
		errMsg := pdfErr.Error()
		receipt.LastError = &errMsg
		nextRetry := time.Now().Add(computeRetryBackoff(receipt.RetryCount))
		receipt.NextRetryAt = &nextRetry
		receipt.Status = model.ReceiptStatusPending
		_ = w.receiptRepo.Update(ctx, receipt)
		log.Warn().
			Err(pdfErr).
			Uint("sale_id", payload.SaleID).
			Int("retry_count", receipt.RetryCount).
			Msg("receipt_worker: render failed, scheduled retry")
		return
	}

	receipt.Status = model.ReceiptStatusGenerated
	receipt.PDFPath = &pdfPath
	receipt.NextRetryAt = nil
	receipt.LastError = nil
	if err := w.receiptRepo.Update(ctx, receipt); err != nil {
		log.Error().Err(err).Uint("sale_id", payload.SaleID).Msg("receipt_worker: failed to update receipt")
		return
	}
	log.Info().Str("pdf", pdfPath).Uint("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if w.copyEmail != "" && w.dispatcher != nil {
		emailJob := EmailJobPayload{
			ToEmail: w.copyEmail,
			Subject: fmt.Sprintf("%s — receipt for sale #%d", w.storeName, sale.ID),
			Body:    fmt.Sprintf("Receipt copy for sale #%d, total %s.", sale.ID, sale.Total.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Uint("sale_id", sale.ID).Msg("receipt_worker: failed to enqueue email copy")
		}
	}
}
