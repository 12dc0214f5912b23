package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnwrapFencedJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced block",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fenced block with prose around it",
			in:   "Here is the data:\n```json\n{\"a\": 1}\n```\nLet me know if you need more.",
			want: `{"a": 1}`,
		},
		{
			name: "bare json untouched",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "bare json trimmed",
			in:   "  {\"a\": 1}\n",
			want: `{"a": 1}`,
		},
		{
			name: "multiline interior",
			in:   "```json\n{\n  \"a\": 1\n}\n```",
			want: "{\n  \"a\": 1\n}",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnwrapFencedJSON(tt.in))
		})
	}
}
