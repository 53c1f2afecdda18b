// Package respond provides shared JSON response helpers for the API handlers.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/http/requestutil"
)

// ErrorBody is the error shape for every non-2xx response.
type ErrorBody struct {
	Error     string `json:"error"`
	Reason    string `json:"reason,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

// Error writes a plain error message.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeError(w, r, status, ErrorBody{Error: message}, logger)
}

// Failure writes a declined domain outcome with the status it maps to.
func Failure(w http.ResponseWriter, r *http.Request, failure domain.Failure, details any, logger *slog.Logger) {
	writeError(w, r, StatusFor(failure), ErrorBody{
		Error:   failure.Message(),
		Reason:  string(failure),
		Details: details,
	}, logger)
}

// StatusFor maps a domain failure to an HTTP status.
func StatusFor(failure domain.Failure) int {
	switch {
	case failure.OK():
		return http.StatusOK
	case failure.IsNotFound():
		return http.StatusNotFound
	}
	switch failure {
	case domain.TeamFull, domain.InvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody, logger *slog.Logger) {
	if r != nil {
		body.RequestID = requestutil.RequestIDFromContext(r.Context())
		if body.RequestID == "" {
			body.RequestID = r.Header.Get("X-Request-ID")
		}
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	JSON(w, status, body, logger)
}
