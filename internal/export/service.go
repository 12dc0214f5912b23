package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-review/internal/entity"
	"github.com/joseph-ayodele/invoice-review/internal/repository"
)

// Service is a tiny façade over the invoice repository that produces XLSX
// bytes for exports.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// ExportInvoicesXLSX returns an XLSX workbook (as bytes) for the invoices
// matching the filter. The filter semantics are identical to the list
// endpoint, so an export always mirrors what a listing would show.
func (s *Service) ExportInvoicesXLSX(ctx context.Context, filter entity.SearchFilter) ([]byte, error) {
	start := time.Now()

	invs, err := s.invoices.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Vendor",
		"Invoice Number",
		"Invoice Date",
		"Due Date",
		"Total Amount",
		"Currency",
		"Line Items",
		"Source File",
		"Extracted At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, inv := range invs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, inv.Vendor.Name)
		write(2, inv.InvoiceInfo.Number)
		write(3, inv.InvoiceInfo.Date)
		write(4, inv.InvoiceInfo.DueDate)
		write(5, inv.InvoiceInfo.TotalAmount)
		write(6, inv.InvoiceInfo.Currency)
		write(7, summarizeItems(inv.LineItems))
		write(8, inv.FileName)
		write(9, inv.ExtractedAt.Format("2006-01-02"))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // vendor
	_ = f.SetColWidth(sheet, "B", "B", 18) // number
	_ = f.SetColWidth(sheet, "C", "D", 12) // dates
	_ = f.SetColWidth(sheet, "E", "E", 14) // amount
	_ = f.SetColWidth(sheet, "G", "G", 60) // items
	_ = f.SetColWidth(sheet, "H", "H", 32) // file

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(invs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// summarizeItems flattens line items into one readable cell rather than a
// sheet per invoice.
func summarizeItems(items []entity.LineItem) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s x%d @ %.2f = %.2f", it.Description, it.Quantity, it.UnitPrice, it.Total)
	}
	return truncate(out, 500)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
