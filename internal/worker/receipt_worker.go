package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the thermal PDF for a
// completed sale and optionally enqueues an email job with the attachment.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/joroshdy12596/ai-pharmacy/internal/infra"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

const maxReceiptAttempts = 3

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string  `json:"sale_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

type ReceiptWorker struct {
	saleRepo       repository.SaleRepository
	dispatcher     *Dispatcher
	rdb            *redis.Client
	pharmacyName   string
	pdfStoragePath string
}

func NewReceiptWorker(
	saleRepo repository.SaleRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pharmacyName string,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:       saleRepo,
		dispatcher:     dispatcher,
		rdb:            rdb,
		pharmacyName:   pharmacyName,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders the PDF receipt for one sale. PDF generation is retried
// with backoff; a job that still fails lands in the DLQ.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, maxReceiptAttempts, func(attempt int) error {
		path, err := infra.GenerateReceiptPDF(sale, w.pharmacyName, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("receipt_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw,
			fmt.Sprintf("PDF generation failed after %d attempts: %v", maxReceiptAttempts, genErr),
			maxReceiptAttempts)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail != nil && *payload.CustomerEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.CustomerEmail,
			Subject: fmt.Sprintf("%s — your receipt", w.pharmacyName),
			Body:    fmt.Sprintf("Thank you for your purchase.\nTotal: %s", sale.TotalAmount.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.CustomerEmail).Msg("receipt_worker: failed to enqueue email")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
