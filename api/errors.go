package api

import (
	"encoding/json"
	"net/http"

	"log/slog"
)

// Stable error kinds surfaced to callers. Every error response carries one
// of these plus a human-readable message; internal faults never leak detail.
const (
	kindUnauthorized     = "unauthorized"
	kindForbidden        = "forbidden"
	kindNotFound         = "not_found"
	kindConflict         = "conflict"
	kindValidationFailed = "validation_failed"
	kindInternal         = "internal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("encode response", slog.Any("err", err))
		}
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, errorResponse{Error: kind, Message: message}, status)
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, kindUnauthorized, message)
}

func forbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, kindForbidden, message)
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, kindNotFound, message)
}

func conflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, kindConflict, message)
}

func validationFailed(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, kindValidationFailed, message)
}

// internalError logs the fault server-side and reports a generic kind to the
// caller.
func internalError(w http.ResponseWriter, err error) {
	logger.Error("internal error", slog.Any("err", err))
	writeError(w, http.StatusInternalServerError, kindInternal, "internal server error")
}
