package handlers

import (
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/league-service/internal/app/calendar"
	"github.com/preston-bernstein/league-service/internal/app/scoring"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/http/respond"
)

// Standings returns the driver championship table.
func (h *Handler) Standings(w nethttp.ResponseWriter, r *nethttp.Request) {
	table, err := h.svc.Scoring.Standings(r.Context())
	h.write(w, r, nethttp.StatusOK, "", table, err)
}

// ConstructorStandings returns the team championship table.
func (h *Handler) ConstructorStandings(w nethttp.ResponseWriter, r *nethttp.Request) {
	table, err := h.svc.Roster.ConstructorStandings(r.Context())
	h.write(w, r, nethttp.StatusOK, "", table, err)
}

// Teams lists every team with its seated drivers.
func (h *Handler) Teams(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.svc.Roster.Teams(r.Context())
	h.write(w, r, nethttp.StatusOK, "", list, err)
}

// Team returns one team roster.
func (h *Handler) Team(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Roster.TeamDrivers(r.Context(), chi.URLParam(r, "teamID"))
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// Races lists scored races in the order they were entered.
func (h *Handler) Races(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.svc.Scoring.Races(r.Context())
	h.write(w, r, nethttp.StatusOK, "", list, err)
}

// ScoreRace awards points for a finishing order.
func (h *Handler) ScoreRace(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req scoring.ScoreRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Scoring.ScoreRace(r.Context(), req)
	h.write(w, r, nethttp.StatusCreated, res.Failure, res, err)
}

// Qualifying records one qualifying result.
func (h *Handler) Qualifying(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req scoring.QualifyingRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Scoring.Qualifying(r.Context(), req)
	h.write(w, r, nethttp.StatusCreated, res.Failure, res, err)
}

// HallOfFame returns the stored all-time records.
func (h *Handler) HallOfFame(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.HallOfFame.Stored(r.Context())
	h.write(w, r, nethttp.StatusOK, "", res, err)
}

// RecomputeHallOfFame rebuilds and stores the all-time records.
func (h *Handler) RecomputeHallOfFame(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.HallOfFame.Recompute(r.Context())
	h.write(w, r, nethttp.StatusOK, "", res, err)
}

// Calendar lists every scheduled round.
func (h *Handler) Calendar(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.svc.Calendar.All(r.Context())
	h.write(w, r, nethttp.StatusOK, "", list, err)
}

// CompletedRaces lists rounds already run.
func (h *Handler) CompletedRaces(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.svc.Calendar.Completed(r.Context())
	h.write(w, r, nethttp.StatusOK, "", list, err)
}

// NextRace returns the next round that has not been run.
func (h *Handler) NextRace(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Calendar.NextRace(r.Context())
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// ScheduleRace adds or reschedules a round.
func (h *Handler) ScheduleRace(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req calendar.AddRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Calendar.AddRace(r.Context(), req)
	status := nethttp.StatusCreated
	if res.Updated {
		status = nethttp.StatusOK
	}
	h.write(w, r, status, res.Failure, res, err)
}

// CompleteRace marks a round as run.
func (h *Handler) CompleteRace(w nethttp.ResponseWriter, r *nethttp.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		respond.Failure(w, r, domain.InvalidInput, map[string]string{"round": "must be a number"}, loggerFromContext(r, h.logger))
		return
	}
	res, err := h.svc.Calendar.MarkCompleted(r.Context(), round)
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}
