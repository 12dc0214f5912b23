// Package extract ties structured extraction and record creation into one
// unit of work. Nothing durable changes until the final step, so a failure
// anywhere earlier leaves no half-created record behind.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/entity"
	"github.com/joseph-ayodele/invoice-review/internal/llm"
	"github.com/joseph-ayodele/invoice-review/internal/repository"
)

type Service struct {
	registry *llm.Registry
	files    repository.FileRepository
	invoices repository.InvoiceRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(registry *llm.Registry, files repository.FileRepository, invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		files:    files,
		invoices: invoices,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source; tests use this.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ExtractAndCreate runs the strictly ordered sequence: structured extraction,
// blob resolution, record creation. Each step propagates its failure and
// creation is the single persistence point.
func (s *Service) ExtractAndCreate(ctx context.Context, fileID uuid.UUID, model string, text string) (*entity.Invoice, error) {
	start := time.Now()
	s.logger.Info("extract.start", "file_id", fileID, "model", model, "text_len", len(text))

	fields, _, err := s.registry.Extract(ctx, model, text)
	if err != nil {
		s.logger.Error("extract.llm_failed", "file_id", fileID, "model", model, "error", err)
		return nil, err
	}

	file, err := s.files.GetMetadata(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("extract.file_missing", "file_id", fileID)
			return nil, fmt.Errorf("%w: PDF file not found for extraction", common.ErrNotFound)
		}
		return nil, err
	}

	now := s.now()
	inv := &entity.Invoice{
		FileID:        file.ID,
		FileName:      file.Filename,
		Vendor:        toVendor(fields.Vendor),
		InvoiceInfo:   toInvoiceInfo(fields.InvoiceInfo),
		LineItems:     toLineItems(fields.LineItems),
		ExtractedAt:   now,
		LastUpdatedAt: now,
	}

	created, err := s.invoices.Create(ctx, inv)
	if err != nil {
		s.logger.Error("extract.create_failed", "file_id", fileID, "error", err)
		return nil, err
	}

	s.logger.Info("extract.ok",
		"file_id", fileID,
		"invoice_id", created.ID,
		"vendor", created.Vendor.Name,
		"number", created.InvoiceInfo.Number,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return created, nil
}

func toVendor(v llm.VendorFields) entity.Vendor {
	return entity.Vendor{Name: v.Name, Address: v.Address, TaxID: v.TaxID}
}

func toInvoiceInfo(i llm.InvoiceInfoFields) entity.InvoiceInfo {
	return entity.InvoiceInfo{
		Number:      i.Number,
		Date:        i.Date,
		DueDate:     i.DueDate,
		TotalAmount: i.TotalAmount,
		Currency:    i.Currency,
	}
}

func toLineItems(items []llm.LineItemFields) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, it := range items {
		out[i] = entity.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return out
}
