// Package groq reserves the "groq" model selector. The provider is not
// implemented; every call reports the unsupported-model failure without
// touching the network.
package groq

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/invoice-review/internal/llm"
)

type Client struct {
	log *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{log: logger}
}

func (c *Client) ExtractFields(ctx context.Context, text string) (llm.InvoiceFields, []byte, error) {
	c.log.Warn("llm.extract.unimplemented_provider", "provider", "groq", "text_len", len(text))
	return llm.InvoiceFields{}, nil, &llm.Error{
		Kind:    llm.FailureUnsupportedModel,
		Details: "Groq API not yet implemented or package not available.",
	}
}
