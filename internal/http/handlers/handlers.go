package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/league-service/internal/app/league"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/http/respond"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/reminder"
)

const maxBodyBytes = 1 << 20

// Handler wires HTTP routes to the league services.
type Handler struct {
	svc      *league.Services
	logger   *slog.Logger
	statusFn func() reminder.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no reminder poller runs.
func NewHandler(svc *league.Services, logger *slog.Logger, statusFn func() reminder.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		respond.Error(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	respond.JSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on the reminder poller.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		respond.JSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		respond.JSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	respond.Error(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// write sends payload with status on success, the failure's status when the
// operation was declined, and 500 on a storage fault.
func (h *Handler) write(w nethttp.ResponseWriter, r *nethttp.Request, status int, failure domain.Failure, payload any, err error) {
	logger := loggerFromContext(r, h.logger)
	switch {
	case err != nil:
		logging.Error(logger, "request failed", err)
		respond.Error(w, r, nethttp.StatusInternalServerError, "league records unavailable", logger)
	case !failure.OK():
		respond.Failure(w, r, failure, payload, logger)
	default:
		respond.JSON(w, status, payload, logger)
	}
}

// decode reads a JSON body into dst, answering 400 when it cannot.
func (h *Handler) decode(w nethttp.ResponseWriter, r *nethttp.Request, dst any) bool {
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		logging.Warn(loggerFromContext(r, h.logger), "bad request body", slog.Any("err", err))
		respond.Error(w, r, nethttp.StatusBadRequest, msg, h.logger)
		return false
	}
	return true
}

func loggerFromContext(r *nethttp.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
