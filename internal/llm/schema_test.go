package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validInvoiceJSON = `{
	"vendor": {"name": "Acme GmbH", "address": "1 Main St, Springfield", "taxId": "DE123456"},
	"invoiceInfo": {"number": "INV-2024-001", "date": "2024-01-02", "dueDate": "2024-02-01", "totalAmount": 1234.5, "currency": "USD"},
	"lineItems": [
		{"description": "Widget", "quantity": 2, "unitPrice": 617.25, "total": 1234.5}
	]
}`

func TestValidateJSONAgainstSchemaAccepts(t *testing.T) {
	schema := BuildInvoiceJSONSchema()

	require.NoError(t, ValidateJSONAgainstSchema(schema, []byte(validInvoiceJSON)))

	// taxId optional, line items may be empty
	minimal := `{
		"vendor": {"name": "Acme", "address": "1 Main St"},
		"invoiceInfo": {"number": "1", "date": "2024-01-02", "dueDate": "2024-02-01", "totalAmount": 1, "currency": "EUR"},
		"lineItems": []
	}`
	require.NoError(t, ValidateJSONAgainstSchema(schema, []byte(minimal)))
}

func TestValidateJSONAgainstSchemaRejects(t *testing.T) {
	schema := BuildInvoiceJSONSchema()

	tests := []struct {
		name string
		json string
	}{
		{
			name: "missing vendor",
			json: `{"invoiceInfo": {"number": "1", "date": "2024-01-02", "dueDate": "2024-02-01", "totalAmount": 1, "currency": "EUR"}, "lineItems": []}`,
		},
		{
			name: "bad date format",
			json: `{"vendor": {"name": "A", "address": "B"}, "invoiceInfo": {"number": "1", "date": "02.01.2024", "dueDate": "2024-02-01", "totalAmount": 1, "currency": "EUR"}, "lineItems": []}`,
		},
		{
			name: "zero total",
			json: `{"vendor": {"name": "A", "address": "B"}, "invoiceInfo": {"number": "1", "date": "2024-01-02", "dueDate": "2024-02-01", "totalAmount": 0, "currency": "EUR"}, "lineItems": []}`,
		},
		{
			name: "fractional quantity",
			json: `{"vendor": {"name": "A", "address": "B"}, "invoiceInfo": {"number": "1", "date": "2024-01-02", "dueDate": "2024-02-01", "totalAmount": 1, "currency": "EUR"}, "lineItems": [{"description": "W", "quantity": 1.5, "unitPrice": 1, "total": 1}]}`,
		},
		{
			name: "unknown top-level key",
			json: `{"vendor": {"name": "A", "address": "B"}, "invoiceInfo": {"number": "1", "date": "2024-01-02", "dueDate": "2024-02-01", "totalAmount": 1, "currency": "EUR"}, "lineItems": [], "extra": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(tt.json)))
		})
	}
}
