package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// NormalizeExtractedJSON
// - Removes unknown keys at every level (strict additionalProperties = false friendliness)
// - Drops null/empty optionals (vendor.taxId)
// - Coerces quoted numerics -> numbers for amount and quantity fields
func NormalizeExtractedJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)

	pruneObject := func(obj map[string]any, prefix string, allowed map[string]struct{}) {
		for k := range obj {
			if _, ok := allowed[k]; !ok {
				delete(obj, k)
				dropped = append(dropped, prefix+k+"(unknown)")
			}
		}
	}

	coerceNumber := func(obj map[string]any, prefix, k string) {
		v, ok := obj[k]
		if !ok {
			return
		}
		s, isStr := v.(string)
		if !isStr {
			return
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			obj[k] = f
			dropped = append(dropped, prefix+k+"(coerced)")
		}
	}

	pruneObject(m, "", map[string]struct{}{
		"vendor": {}, "invoiceInfo": {}, "lineItems": {},
	})

	if vendor, ok := m["vendor"].(map[string]any); ok {
		pruneObject(vendor, "vendor.", map[string]struct{}{
			"name": {}, "address": {}, "taxId": {},
		})
		// taxId is the only optional: drop null / empty
		switch t := vendor["taxId"].(type) {
		case nil:
			if _, present := vendor["taxId"]; present {
				delete(vendor, "taxId")
				dropped = append(dropped, "vendor.taxId(null)")
			}
		case string:
			if strings.TrimSpace(t) == "" {
				delete(vendor, "taxId")
				dropped = append(dropped, "vendor.taxId(empty)")
			}
		}
	}

	if info, ok := m["invoiceInfo"].(map[string]any); ok {
		pruneObject(info, "invoiceInfo.", map[string]struct{}{
			"number": {}, "date": {}, "dueDate": {}, "totalAmount": {}, "currency": {},
		})
		coerceNumber(info, "invoiceInfo.", "totalAmount")
		if v, ok := info["number"].(float64); ok {
			// models sometimes emit bare invoice numbers as JSON numbers
			info["number"] = strconv.FormatFloat(v, 'f', -1, 64)
			dropped = append(dropped, "invoiceInfo.number(coerced)")
		}
	}

	if items, ok := m["lineItems"].([]any); ok {
		for i, it := range items {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			prefix := fmt.Sprintf("lineItems[%d].", i)
			pruneObject(obj, prefix, map[string]struct{}{
				"description": {}, "quantity": {}, "unitPrice": {}, "total": {},
			})
			coerceNumber(obj, prefix, "quantity")
			coerceNumber(obj, prefix, "unitPrice")
			coerceNumber(obj, prefix, "total")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
