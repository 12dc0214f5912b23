package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is the issuing party of an invoice.
type Vendor struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"taxId,omitempty"`
}

// InvoiceInfo carries the invoice-level metadata. Dates are YYYY-MM-DD strings
// exactly as extracted; they are validated, not reinterpreted.
type InvoiceInfo struct {
	Number      string  `json:"number"`
	Date        string  `json:"date"`
	DueDate     string  `json:"dueDate"`
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
}

// LineItem is a single billed position. Order is display order.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Invoice is the reviewed record produced by extraction or manual entry.
// FileID, FileName and ExtractedAt are immutable after creation.
type Invoice struct {
	ID            uuid.UUID   `json:"id"`
	FileID        uuid.UUID   `json:"fileId"`
	FileName      string      `json:"fileName"`
	Vendor        Vendor      `json:"vendor"`
	InvoiceInfo   InvoiceInfo `json:"invoiceInfo"`
	LineItems     []LineItem  `json:"lineItems"`
	ExtractedAt   time.Time   `json:"extractedAt"`
	LastUpdatedAt time.Time   `json:"lastUpdatedAt"`
}

// InvoiceUpdate is a partial patch applied by PUT. Nil fields are left
// untouched. The protected fields (fileId, fileName, extractedAt) are not
// representable here, so they cannot be modified through the update path.
type InvoiceUpdate struct {
	Vendor      *Vendor      `json:"vendor"`
	InvoiceInfo *InvoiceInfo `json:"invoiceInfo"`
	LineItems   *[]LineItem  `json:"lineItems"`
}

// SearchFilter narrows invoice listings. Empty fields match everything;
// both filters are ANDed when present.
type SearchFilter struct {
	VendorName    string
	InvoiceNumber string
}
