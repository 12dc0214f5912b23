package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/entity"
)

type stubInvoiceRepo struct {
	invoices []*entity.Invoice
	filter   entity.SearchFilter
	err      error
}

func (s *stubInvoiceRepo) Create(context.Context, *entity.Invoice) (*entity.Invoice, error) {
	return nil, common.ErrStorage
}

func (s *stubInvoiceRepo) GetByID(context.Context, uuid.UUID) (*entity.Invoice, error) {
	return nil, common.ErrNotFound
}

func (s *stubInvoiceRepo) Search(_ context.Context, filter entity.SearchFilter) ([]*entity.Invoice, error) {
	s.filter = filter
	return s.invoices, s.err
}

func (s *stubInvoiceRepo) Update(context.Context, uuid.UUID, *entity.InvoiceUpdate) (*entity.Invoice, error) {
	return nil, common.ErrNotFound
}

func (s *stubInvoiceRepo) Delete(context.Context, uuid.UUID) error {
	return common.ErrNotFound
}

func sampleInvoice(vendor, number string) *entity.Invoice {
	return &entity.Invoice{
		ID:       uuid.New(),
		FileID:   uuid.New(),
		FileName: "invoice.pdf",
		Vendor:   entity.Vendor{Name: vendor, Address: "1 Main St"},
		InvoiceInfo: entity.InvoiceInfo{
			Number: number, Date: "2024-01-02", DueDate: "2024-02-01",
			TotalAmount: 1234.5, Currency: "USD",
		},
		LineItems: []entity.LineItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 617.25, Total: 1234.5},
		},
		ExtractedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		LastUpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportInvoicesXLSX(t *testing.T) {
	repo := &stubInvoiceRepo{invoices: []*entity.Invoice{
		sampleInvoice("Acme GmbH", "INV-1"),
		sampleInvoice("Globex", "INV-2"),
	}}
	svc := NewService(repo, nil)

	filter := entity.SearchFilter{VendorName: "acme"}
	data, err := svc.ExportInvoicesXLSX(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, filter, repo.filter, "export must use the same filter as listing")

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	header, err := wb.GetCellValue("Invoices", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Vendor", header)

	vendor, err := wb.GetCellValue("Invoices", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Acme GmbH", vendor)

	number, err := wb.GetCellValue("Invoices", "B3")
	require.NoError(t, err)
	assert.Equal(t, "INV-2", number)

	items, err := wb.GetCellValue("Invoices", "G2")
	require.NoError(t, err)
	assert.Contains(t, items, "Widget x2")
}

func TestExportInvoicesXLSXEmpty(t *testing.T) {
	svc := NewService(&stubInvoiceRepo{}, nil)

	data, err := svc.ExportInvoicesXLSX(context.Background(), entity.SearchFilter{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Invoices")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
