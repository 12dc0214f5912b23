package llm

import (
	"errors"
	"fmt"
)

// FailureKind tags extraction failures so callers can map them onto their own
// error surface without string matching.
type FailureKind string

const (
	// FailureUnconfigured: the selected provider has no credentials. Reported
	// without attempting a network call.
	FailureUnconfigured FailureKind = "unconfigured"
	// FailureUnsupportedModel: the model selector is outside the enumerated
	// set, or names a reserved provider with no implementation.
	FailureUnsupportedModel FailureKind = "unsupported_model"
	// FailureParse: the provider response was not valid invoice JSON after
	// unwrapping.
	FailureParse FailureKind = "parse"
	// FailureTransport: network or provider-side error.
	FailureTransport FailureKind = "transport"
)

// Error is the tagged failure every extractor returns instead of raising.
type Error struct {
	Kind    FailureKind
	Details string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s: %s: %v", e.Kind, e.Details, e.Cause)
	}
	return fmt.Sprintf("extraction %s: %s", e.Kind, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind FailureKind, details string, cause error) *Error {
	return &Error{Kind: kind, Details: details, Cause: cause}
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (FailureKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Snippet truncates provider output for inclusion in failure details.
func Snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
