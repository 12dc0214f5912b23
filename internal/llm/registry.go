package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// Registry holds one extractor per model selector. It is built once in main
// and injected wherever extraction runs; there is no ambient provider state.
type Registry struct {
	extractors map[Model]FieldExtractor
	logger     *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		extractors: make(map[Model]FieldExtractor),
		logger:     logger,
	}
}

// Register binds a model selector to an extractor. Later registrations for
// the same model replace earlier ones.
func (r *Registry) Register(m Model, fe FieldExtractor) {
	r.extractors[m] = fe
}

// Extract dispatches to the extractor registered for the given selector.
// Unknown selectors fail with the unsupported-model kind before any work.
func (r *Registry) Extract(ctx context.Context, model string, text string) (InvoiceFields, []byte, error) {
	m, ok := ParseModel(model)
	if !ok {
		r.logger.Warn("llm.registry.unknown_model", "model", model)
		return InvoiceFields{}, nil, newError(FailureUnsupportedModel,
			fmt.Sprintf("invalid model type %q provided for extraction", model), nil)
	}
	fe, ok := r.extractors[m]
	if !ok {
		return InvoiceFields{}, nil, newError(FailureUnsupportedModel,
			fmt.Sprintf("no extractor registered for model %q", m), nil)
	}
	return fe.ExtractFields(ctx, text)
}
