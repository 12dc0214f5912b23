package llm

import "context"

// Model selects the inference provider used for extraction.
type Model string

const (
	ModelGemini Model = "gemini"
	ModelGroq   Model = "groq" // reserved, not implemented
)

// ParseModel maps a wire string onto a known Model.
func ParseModel(s string) (Model, bool) {
	switch Model(s) {
	case ModelGemini:
		return ModelGemini, true
	case ModelGroq:
		return ModelGroq, true
	}
	return "", false
}

// VendorFields identifies the invoice issuer.
type VendorFields struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"taxId,omitempty"`
}

// InvoiceInfoFields carries the invoice metadata. Dates are YYYY-MM-DD.
type InvoiceInfoFields struct {
	Number      string  `json:"number"`
	Date        string  `json:"date"`
	DueDate     string  `json:"dueDate"`
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
}

// LineItemFields is one billed position.
type LineItemFields struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// InvoiceFields is the normalized shape we want from the LLM.
type InvoiceFields struct {
	Vendor      VendorFields      `json:"vendor"`
	InvoiceInfo InvoiceInfoFields `json:"invoiceInfo"`
	LineItems   []LineItemFields  `json:"lineItems"`
}

// FieldExtractor is the interface the extraction pipeline depends on.
// Implementations return the parsed fields plus the raw JSON the provider
// produced (after unwrapping), for diagnostics.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (InvoiceFields, []byte, error)
}
