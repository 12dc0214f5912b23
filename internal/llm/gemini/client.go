package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joseph-ayodele/invoice-review/internal/llm"
)

// ExtractFields implements llm.FieldExtractor against the Generative Language
// API. One outbound call per invocation; no retries, no caching.
func (c *Client) ExtractFields(ctx context.Context, text string) (llm.InvoiceFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"provider", "gemini",
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(text),
	)

	if c.cfg.APIKey == "" {
		c.log.Warn("llm.extract.unconfigured", "req_id", rid, "provider", "gemini")
		return llm.InvoiceFields{}, nil, &llm.Error{
			Kind:    llm.FailureUnconfigured,
			Details: "Gemini API key not configured or model not initialized.",
		}
	}

	prompt := llm.BuildExtractionPrompt(text)
	body := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]any{{"text": prompt}},
			},
		},
		"generationConfig": map[string]any{
			"temperature": c.cfg.Temperature,
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	raw, status, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, nil, &llm.Error{
			Kind:    llm.FailureTransport,
			Details: transportDetails(status, raw, httpErr),
			Cause:   httpErr,
		}
	}

	var envelope struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, raw, &llm.Error{
			Kind:    llm.FailureTransport,
			Details: "malformed response envelope from Gemini",
			Cause:   err,
		}
	}
	if len(envelope.Candidates) == 0 {
		c.log.Error("llm.extract.no_candidates",
			"req_id", rid, "raw", llm.Snippet(string(raw), 500),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, raw, &llm.Error{
			Kind:    llm.FailureTransport,
			Details: "no candidates in Gemini response",
		}
	}

	var sb strings.Builder
	for _, p := range envelope.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	content := llm.UnwrapFencedJSON(sb.String())
	rawContent := []byte(content)

	cleaned, _, sErr := llm.NormalizeExtractedJSON(rawContent, c.log)
	if sErr != nil {
		c.log.Error("llm.extract.parse_failed",
			"req_id", rid, "error", sErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, rawContent, &llm.Error{
			Kind:    llm.FailureParse,
			Details: "Invalid JSON response from Gemini: " + llm.Snippet(content, 200),
			Cause:   sErr,
		}
	}

	schema := llm.BuildInvoiceJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", llm.Snippet(content, 500),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, cleaned, &llm.Error{
			Kind:    llm.FailureParse,
			Details: "Gemini response does not match invoice schema: " + llm.Snippet(content, 200),
			Cause:   err,
		}
	}

	var out llm.InvoiceFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.InvoiceFields{}, cleaned, &llm.Error{
			Kind:    llm.FailureParse,
			Details: "Invalid JSON response from Gemini: " + llm.Snippet(content, 200),
			Cause:   err,
		}
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"vendor", out.Vendor.Name,
		"number", out.InvoiceInfo.Number,
		"total", out.InvoiceInfo.TotalAmount,
		"currency", out.InvoiceInfo.Currency,
		"line_items", len(out.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("gemini response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, resp.StatusCode, fmt.Errorf("gemini status %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

// transportDetails extracts the best available diagnostics from a failed
// call: status code plus reason phrase if present, else the raw error text.
func transportDetails(status int, raw []byte, err error) string {
	if status > 0 {
		reason := "Unknown"
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		if jErr := json.Unmarshal(raw, &apiErr); jErr == nil {
			if apiErr.Error.Message != "" {
				reason = apiErr.Error.Message
			} else if apiErr.Error.Status != "" {
				reason = apiErr.Error.Status
			}
		}
		return fmt.Sprintf("Gemini API error: Status %d - %s", status, reason)
	}
	if err != nil {
		return "Gemini API error: " + err.Error()
	}
	return "An unknown error occurred during Gemini extraction."
}
