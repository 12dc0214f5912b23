package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/invoice-review/internal/common"
	"github.com/joseph-ayodele/invoice-review/internal/llm"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps a failure to the status code and envelope the API promises.
// Validation and unsupported-model failures are the client's fault (400),
// absence is 404, everything else is a 500 with the fallback message so
// storage internals never leak to the wire.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundMessage(err)})
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		if kind, ok := llm.KindOf(err); ok && kind == llm.FailureUnsupportedModel {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: fallback})
	}
}

func notFoundMessage(err error) string {
	if msg := err.Error(); msg != common.ErrNotFound.Error() {
		return msg
	}
	return "not found"
}
