package handlers

import (
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/league-service/internal/app/adjudication"
)

// ReportIncident files an incident report.
func (h *Handler) ReportIncident(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req adjudication.ReportRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Adjudication.Report(r.Context(), req)
	h.write(w, r, nethttp.StatusCreated, res.Failure, res, err)
}

// DecideIncident records a steward verdict.
func (h *Handler) DecideIncident(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req adjudication.DecideRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.Ref = chi.URLParam(r, "ref")
	res, err := h.svc.Adjudication.Decide(r.Context(), req)
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// Incident returns one incident report.
func (h *Handler) Incident(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Adjudication.Get(r.Context(), chi.URLParam(r, "ref"))
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// Incidents lists reports; ?open=true keeps only undecided ones.
func (h *Handler) Incidents(w nethttp.ResponseWriter, r *nethttp.Request) {
	openOnly, _ := strconv.ParseBool(r.URL.Query().Get("open"))
	list, err := h.svc.Adjudication.List(r.Context(), openOnly)
	h.write(w, r, nethttp.StatusOK, "", list, err)
}
