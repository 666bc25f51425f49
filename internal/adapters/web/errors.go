package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"sales-service/internal/core"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorDetails(w, r, message, code, status, nil)
}

func writeErrorDetails(w http.ResponseWriter, r *http.Request, message, code string, status int, details []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// Validation failures carry every violated rule in the details list.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *core.ValidationError
	if errors.As(err, &validation) {
		writeErrorDetails(w, r, "validation failed", "VALIDATION_ERROR", http.StatusBadRequest, validation.Violations)
		return
	}

	var notFound *core.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, r, notFound.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}

	var invalidOp *core.InvalidOperationError
	if errors.As(err, &invalidOp) {
		writeError(w, r, invalidOp.Error(), "INVALID_OPERATION", http.StatusUnprocessableEntity)
		return
	}

	var conflict *core.ConflictError
	if errors.As(err, &conflict) {
		writeError(w, r, conflict.Error(), "CONFLICT", http.StatusConflict)
		return
	}

	writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
}
