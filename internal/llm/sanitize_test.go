package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestNormalizeExtractedJSONPrunesUnknownKeys(t *testing.T) {
	raw := []byte(`{
		"vendor": {"name": "Acme", "address": "1 Main St", "confidence": 0.9},
		"invoiceInfo": {"number": "INV-1", "date": "2024-01-02", "dueDate": "2024-02-02", "totalAmount": 10, "currency": "USD"},
		"lineItems": [],
		"notes": "extracted by model"
	}`)

	out, dropped, err := NormalizeExtractedJSON(raw, nil)
	require.NoError(t, err)

	m := decode(t, out)
	assert.NotContains(t, m, "notes")
	vendor := m["vendor"].(map[string]any)
	assert.NotContains(t, vendor, "confidence")
	assert.Contains(t, dropped, "notes(unknown)")
	assert.Contains(t, dropped, "vendor.confidence(unknown)")
}

func TestNormalizeExtractedJSONDropsEmptyTaxID(t *testing.T) {
	for _, taxID := range []string{`null`, `""`, `"  "`} {
		raw := []byte(`{"vendor": {"name": "Acme", "address": "1 Main St", "taxId": ` + taxID + `}}`)

		out, _, err := NormalizeExtractedJSON(raw, nil)
		require.NoError(t, err)

		vendor := decode(t, out)["vendor"].(map[string]any)
		assert.NotContains(t, vendor, "taxId", "input taxId=%s", taxID)
	}
}

func TestNormalizeExtractedJSONKeepsRealTaxID(t *testing.T) {
	raw := []byte(`{"vendor": {"name": "Acme", "address": "1 Main St", "taxId": "DE123"}}`)

	out, dropped, err := NormalizeExtractedJSON(raw, nil)
	require.NoError(t, err)

	vendor := decode(t, out)["vendor"].(map[string]any)
	assert.Equal(t, "DE123", vendor["taxId"])
	assert.Empty(t, dropped)
}

func TestNormalizeExtractedJSONCoercesQuotedNumbers(t *testing.T) {
	raw := []byte(`{
		"invoiceInfo": {"number": "INV-1", "date": "2024-01-02", "dueDate": "2024-02-02", "totalAmount": "1,234.50", "currency": "USD"},
		"lineItems": [{"description": "Widget", "quantity": "2", "unitPrice": "617.25", "total": "1234.50"}]
	}`)

	out, dropped, err := NormalizeExtractedJSON(raw, nil)
	require.NoError(t, err)

	m := decode(t, out)
	info := m["invoiceInfo"].(map[string]any)
	assert.Equal(t, 1234.5, info["totalAmount"])

	item := m["lineItems"].([]any)[0].(map[string]any)
	assert.Equal(t, 2.0, item["quantity"])
	assert.Equal(t, 617.25, item["unitPrice"])
	assert.Contains(t, dropped, "invoiceInfo.totalAmount(coerced)")
}

func TestNormalizeExtractedJSONStringifiesNumericInvoiceNumber(t *testing.T) {
	raw := []byte(`{"invoiceInfo": {"number": 20240101, "date": "2024-01-02", "dueDate": "2024-02-02", "totalAmount": 10, "currency": "USD"}}`)

	out, _, err := NormalizeExtractedJSON(raw, nil)
	require.NoError(t, err)

	info := decode(t, out)["invoiceInfo"].(map[string]any)
	assert.Equal(t, "20240101", info["number"])
}

func TestNormalizeExtractedJSONRejectsNonJSON(t *testing.T) {
	_, _, err := NormalizeExtractedJSON([]byte("I could not find an invoice in this text."), nil)
	assert.Error(t, err)
}
