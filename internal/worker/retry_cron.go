package worker

// retry_cron.go
// Background goroutine that periodically re-attempts PDF rendering for
// receipts stuck in status='pending' with a next_retry_at in the past.

import (
	"context"
	"fmt"
	"time"

	"tillpos/internal/infra"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxReceiptRetries is the attempt ceiling before a receipt is parked in
	// error state and its job lands in the DLQ.
	MaxReceiptRetries = 5
)

// computeRetryBackoff doubles per attempt: 1m, 2m, 4m …
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReceiptRepo repository.ReceiptRepository
	SaleRepo    repository.SaleRepository
	RDB         *redis.Client
	StoragePath string
	StoreName   string
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries overdue pending receipts, and re-renders their PDFs.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	now := time.Now()
	receipts, err := cfg.ReceiptRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(receipts) == 0 {
		return
	}

	log.Info().Int("count", len(receipts)).Msg("retry_cron: processing pending receipts")

	for i := range receipts {
		receipt := &receipts[i]

		sale, err := cfg.SaleRepo.FindByID(ctx, receipt.SaleID)
		if err != nil {
			log.Error().Err(err).Uint("receipt_id", receipt.ID).Msg("retry_cron: sale lookup failed")
			continue
		}

		pdfPath, renderErr := infra.GenerateReceiptPDF(sale, cfg.StoreName, cfg.StoragePath)
		if renderErr != nil {
			receipt.RetryCount++
			errMsg := renderErr.Error()
			receipt.LastError = &errMsg

			if receipt.RetryCount >= MaxReceiptRetries {
				receipt.Status = model.ReceiptStatusError
				receipt.NextRetryAt = nil
				log.Error().
					Uint("receipt_id", receipt.ID).
					Uint("sale_id", receipt.SaleID).
					Int("retries", receipt.RetryCount).
					Msg("retry_cron: max retries exceeded, parking receipt")

				payload := fmt.Sprintf(`{"sale_id":%d}`, receipt.SaleID)
				SendToDLQ(ctx, cfg.RDB, QueueReceipt, "receipt", []byte(payload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxReceiptRetries, errMsg),
					receipt.RetryCount)
			} else {
				nextRetry := time.Now().Add(computeRetryBackoff(receipt.RetryCount))
				receipt.NextRetryAt = &nextRetry
				log.Warn().
					Uint("receipt_id", receipt.ID).
					Int("retry_count", receipt.RetryCount).
					Time("next_retry_at", nextRetry).
					Msg("retry_cron: render failed, scheduled next attempt")
			}

			_ = cfg.ReceiptRepo.Update(ctx, receipt)
			continue
		}

		receipt.Status = model.ReceiptStatusGenerated
		receipt.PDFPath = &pdfPath
		receipt.NextRetryAt = nil
		receipt.LastError = nil
		_ = cfg.ReceiptRepo.Update(ctx, receipt)

		log.Info().
			Uint("receipt_id", receipt.ID).
			Int("total_retries", receipt.RetryCount).
			Str("pdf", pdfPath).
			Msg("retry_cron: PDF generated after retry")
	}
}
