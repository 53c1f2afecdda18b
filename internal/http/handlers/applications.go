package handlers

import (
	nethttp "net/http"

	"github.com/preston-bernstein/league-service/internal/app/lifecycle"
)

// SubmitApplication registers or overwrites an application.
func (h *Handler) SubmitApplication(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req lifecycle.SubmitRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Lifecycle.Submit(r.Context(), req)
	status := nethttp.StatusCreated
	if res.Updated {
		status = nethttp.StatusOK
	}
	h.write(w, r, status, res.Failure, res, err)
}

// TransitionApplication applies an admin action to an application.
func (h *Handler) TransitionApplication(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req lifecycle.TransitionRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.PlayerID = playerID(r)
	res, err := h.svc.Lifecycle.Transition(r.Context(), req)
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// Application returns a stored application with the actions still available.
func (h *Handler) Application(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Lifecycle.Reopen(r.Context(), playerID(r))
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}
