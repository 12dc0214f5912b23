package llm

import (
	"regexp"
	"strings"
)

// Providers habitually wrap JSON answers in a fenced markdown block even when
// told not to. The unwrap runs for every provider before parsing.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// UnwrapFencedJSON returns the interior of a ```json fenced block if one is
// present, otherwise the trimmed input unchanged.
func UnwrapFencedJSON(s string) string {
	if m := fencedJSON.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}
