package handlers

import (
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/league-service/internal/app/penalties"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/http/respond"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/markers"
)

func playerID(r *nethttp.Request) string {
	return chi.URLParam(r, "playerID")
}

// ListPlayers returns registered players, optionally filtered by ?role=.
func (h *Handler) ListPlayers(w nethttp.ResponseWriter, r *nethttp.Request) {
	var role players.Role
	if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
		parsed, ok := players.ParseRole(raw)
		if !ok {
			respond.Failure(w, r, domain.InvalidInput, map[string]string{"role": raw}, loggerFromContext(r, h.logger))
			return
		}
		role = parsed
	}
	list, err := h.svc.Players.List(r.Context(), role)
	h.write(w, r, nethttp.StatusOK, "", list, err)
}

// Player returns one player record.
func (h *Handler) Player(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Players.Get(r.Context(), playerID(r))
	h.write(w, r, nethttp.StatusOK, res.Failure, res.Player, err)
}

// Unregister removes a player.
func (h *Handler) Unregister(w nethttp.ResponseWriter, r *nethttp.Request) {
	ok, err := h.svc.Players.Unregister(r.Context(), playerID(r))
	h.writeFound(w, r, ok, err)
}

// ResetMissedRaces clears a player's missed-race counter.
func (h *Handler) ResetMissedRaces(w nethttp.ResponseWriter, r *nethttp.Request) {
	ok, err := h.svc.Players.ResetMissedRaces(r.Context(), playerID(r))
	h.writeFound(w, r, ok, err)
}

// DriverStats returns derived statistics for a driver.
func (h *Handler) DriverStats(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Scoring.DriverStats(r.Context(), playerID(r))
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// RaceHistory returns every race result of a player.
func (h *Handler) RaceHistory(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Scoring.RaceHistory(r.Context(), playerID(r))
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// QualifyingHistory returns every qualifying result of a player.
func (h *Handler) QualifyingHistory(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Scoring.QualifyingHistory(r.Context(), playerID(r))
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// PenaltyHistory returns a player's ledger.
func (h *Handler) PenaltyHistory(w nethttp.ResponseWriter, r *nethttp.Request) {
	res, err := h.svc.Penalties.History(r.Context(), playerID(r))
	h.write(w, r, nethttp.StatusOK, "", res, err)
}

// AddPenalty appends a ledger entry. The path id wins over any id in the body.
func (h *Handler) AddPenalty(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req penalties.AddRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.PlayerID = playerID(r)
	res, err := h.svc.Penalties.Add(r.Context(), req)
	h.write(w, r, nethttp.StatusCreated, res.Failure, res, err)
}

// ResetPenalties clears a player's ledger.
func (h *Handler) ResetPenalties(w nethttp.ResponseWriter, r *nethttp.Request) {
	ok, err := h.svc.Penalties.Reset(r.Context(), playerID(r))
	h.writeFound(w, r, ok, err)
}

type assignTeamRequest struct {
	TeamID string `json:"teamId"`
}

// AssignTeam seats a driver on a team.
func (h *Handler) AssignTeam(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req assignTeamRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.svc.Roster.AssignTeam(r.Context(), playerID(r), req.TeamID)
	h.write(w, r, nethttp.StatusOK, res.Failure, res, err)
}

// ReleaseTeam removes a driver from their team.
func (h *Handler) ReleaseTeam(w nethttp.ResponseWriter, r *nethttp.Request) {
	ok, err := h.svc.Roster.Release(r.Context(), playerID(r))
	h.writeFound(w, r, ok, err)
}

type markersBody struct {
	PlayerID string   `json:"playerId"`
	Markers  []string `json:"markers"`
}

// Markers returns the permission markers the front end should mirror for a member.
func (h *Handler) Markers(w nethttp.ResponseWriter, r *nethttp.Request) {
	id := playerID(r)
	list, err := h.svc.Markers.Markers(r.Context(), id)
	if list == nil {
		list = []string{}
	}
	h.write(w, r, nethttp.StatusOK, "", markersBody{PlayerID: id, Markers: list}, err)
}

// ReplaceMarkers overwrites a member's permission markers.
func (h *Handler) ReplaceMarkers(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req markersBody
	if !h.decode(w, r, &req) {
		return
	}
	id := playerID(r)
	list := markers.Normalize(req.Markers)
	err := h.svc.Markers.Replace(r.Context(), id, list)
	if err == nil {
		logging.Info(loggerFromContext(r, h.logger), "markers replaced",
			slog.String(logging.FieldPlayerID, id),
			slog.Int(logging.FieldCount, len(list)),
		)
	}
	h.write(w, r, nethttp.StatusOK, "", markersBody{PlayerID: id, Markers: list}, err)
}

func (h *Handler) writeFound(w nethttp.ResponseWriter, r *nethttp.Request, ok bool, err error) {
	failure := domain.Failure("")
	if !ok {
		failure = domain.PlayerNotFound
	}
	h.write(w, r, nethttp.StatusOK, failure, map[string]string{"playerId": playerID(r), "status": "ok"}, err)
}
