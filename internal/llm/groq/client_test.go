package groq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-review/internal/llm"
)

func TestExtractFieldsAlwaysUnsupported(t *testing.T) {
	c := NewClient(nil)

	_, _, err := c.ExtractFields(context.Background(), "some invoice text")
	kind, ok := llm.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, llm.FailureUnsupportedModel, kind)

	var llmErr *llm.Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, "Groq API not yet implemented or package not available.", llmErr.Details)
}
