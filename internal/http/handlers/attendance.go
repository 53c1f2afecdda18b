package handlers

import (
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/league-service/internal/app/attendance"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/http/respond"
)

// RecordAttendance stores a member's declaration for the next race.
func (h *Handler) RecordAttendance(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req attendance.RecordRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Attendance.Record(r.Context(), req)
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// ResetAttendance clears every declaration.
func (h *Handler) ResetAttendance(w nethttp.ResponseWriter, r *nethttp.Request) {
	n, err := h.svc.Attendance.Reset(r.Context())
	h.write(w, r, nethttp.StatusOK, "", map[string]int{"cleared": n}, err)
}

// Attendance returns the current declarations with counts per status.
func (h *Handler) Attendance(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Attendance.Current(r.Context())
	h.write(w, r, nethttp.StatusOK, "", res, err)
}

// Lineup splits confirmed drivers into the main grid and reserves.
func (h *Handler) Lineup(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Attendance.Lineup(r.Context())
	h.write(w, r, nethttp.StatusOK, "", res, err)
}

// InactivePlayers lists players at or above ?threshold= missed races.
func (h *Handler) InactivePlayers(w nethttp.ResponseWriter, r *nethttp.Request) {
	threshold := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("threshold")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Failure(w, r, domain.InvalidInput, map[string]string{"threshold": raw}, loggerFromContext(r, h.logger))
			return
		}
		threshold = n
	}
	list, err := h.svc.Attendance.InactivePlayers(r.Context(), threshold)
	h.write(w, r, nethttp.StatusOK, "", list, err)
}
