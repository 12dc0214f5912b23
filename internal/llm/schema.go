package llm

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is validated locally against every provider response.
func BuildInvoiceJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"quantity":    map[string]any{"type": "integer", "minimum": 1},
			"unitPrice":   positiveNumberProp(),
			"total":       positiveNumberProp(),
		},
		"required": []string{"description", "quantity", "unitPrice", "total"},
	}

	vendor := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    map[string]any{"type": "string", "minLength": 1},
			"address": map[string]any{"type": "string", "minLength": 1},
			"taxId":   map[string]any{"type": "string"},
		},
		"required": []string{"name", "address"},
	}

	invoiceInfo := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"number":      map[string]any{"type": "string", "minLength": 1},
			"date":        dateProp(),
			"dueDate":     dateProp(),
			"totalAmount": positiveNumberProp(),
			"currency":    map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"number", "date", "dueDate", "totalAmount", "currency"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"vendor":      vendor,
			"invoiceInfo": invoiceInfo,
			"lineItems":   map[string]any{"type": "array", "items": lineItem},
		},
		"required": []string{"vendor", "invoiceInfo", "lineItems"},
	}
}

func dateProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
}

func positiveNumberProp() map[string]any {
	return map[string]any{"type": "number", "exclusiveMinimum": 0}
}
