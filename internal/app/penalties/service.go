package penalties

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/markers"
	"github.com/preston-bernstein/league-service/internal/notify"
)

// Policy is the league's disciplinary configuration.
type Policy struct {
	Limit   int
	AutoBan bool
}

// Service maintains penalty ledgers and applies the ban policy.
type Service struct {
	app.Deps
	policy  Policy
	gateway markers.Gateway
	planner markers.Planner
	sink    notify.Sink
}

// NewService constructs a penalty service. gateway and sink may be nil, in
// which case threshold crossings are only reported.
func NewService(deps app.Deps, policy Policy, gateway markers.Gateway, planner markers.Planner, sink notify.Sink) *Service {
	return &Service{Deps: deps, policy: policy, gateway: gateway, planner: planner, sink: sink}
}

// AddRequest describes a penalty to append.
type AddRequest struct {
	PlayerID    string `json:"playerId"`
	Points      int    `json:"points"`
	Reason      string `json:"reason"`
	IncidentRef string `json:"incidentRef,omitempty"`
}

// AddResult reports the ledger after an append.
type AddResult struct {
	Failure       domain.Failure `json:"failure,omitempty"`
	PlayerID      string         `json:"playerId"`
	TotalPoints   int            `json:"totalPoints"`
	LimitExceeded bool           `json:"limitExceeded"`
	Banned        bool           `json:"banned"`
}

// HistoryResult is a read-only view of a ledger.
type HistoryResult struct {
	PlayerID    string                 `json:"playerId"`
	TotalPoints int                    `json:"totalPoints"`
	Entries     []players.PenaltyEntry `json:"entries"`
}

// Apply appends a penalty to the player inside an open document unit.
func (s *Service) Apply(doc *domain.Document, req AddRequest, at time.Time) AddResult {
	res := AddResult{PlayerID: req.PlayerID}
	p, ok := doc.Player(req.PlayerID)
	if !ok {
		res.Failure = domain.PlayerNotFound
		return res
	}
	res.TotalPoints = p.Penalties.Append(players.PenaltyEntry{
		At:          at,
		Points:      req.Points,
		Reason:      strings.TrimSpace(req.Reason),
		IncidentRef: req.IncidentRef,
	})
	res.LimitExceeded = p.Penalties.Reached(s.policy.Limit)
	return res
}

// Add appends a penalty and, when the limit is reached and auto-ban is on,
// grants the ban marker.
func (s *Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	start := time.Now()
	var (
		res         AddResult
		displayName string
	)
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		res = s.Apply(doc, req, s.Clock())
		if p, ok := doc.Player(req.PlayerID); ok {
			displayName = p.DisplayName
		}
		return res.Failure.OK()
	})
	if err == nil && res.Failure.OK() {
		res.Banned = s.Enforce(ctx, displayName, req.Points, res)
	}
	s.Observe(ctx, "addPenalty", start, res.Failure, err, logging.FieldPlayerID, req.PlayerID)
	return res, err
}

// Enforce runs after a committed append: it counts the penalty and, when the
// limit was reached, applies the ban side effects. It reports whether the ban
// marker was granted. The driver keeps their other markers.
func (s *Service) Enforce(ctx context.Context, displayName string, points int, res AddResult) bool {
	if !res.LimitExceeded || !s.policy.AutoBan || s.gateway == nil {
		s.Metrics.RecordPenalty(points, false)
		return false
	}
	playerID := res.PlayerID
	logger := logging.FromContext(ctx, s.Logger)

	banned := false
	_, err := s.gateway.Modify(ctx, playerID, func(current []string) []string {
		return markers.With(current, s.planner.Banned())
	})
	if err != nil {
		logging.Error(logger, "ban marker not applied", err, logging.FieldPlayerID, playerID)
	} else {
		banned = true
	}

	if s.sink != nil {
		s.sink.Post(ctx, notify.Post{
			Channel: notify.ChannelAdmin,
			Title:   "Penalty limit reached",
			Body:    fmt.Sprintf("%s has %d penalty points (limit %d).", labelFor(displayName, playerID), res.TotalPoints, s.policy.Limit),
			Fields: []notify.Field{
				{Name: "Player", Value: playerID},
				{Name: "Ban applied", Value: fmt.Sprintf("%t", banned)},
			},
		})
		s.sink.DirectMessage(ctx, playerID, fmt.Sprintf(
			"You have reached %d penalty points, over the league limit of %d. You are suspended from racing until the stewards review your case.",
			res.TotalPoints, s.policy.Limit))
	}
	s.Metrics.RecordPenalty(points, banned)
	return banned
}

// Reset clears the player's ledger. It reports false for unknown players.
func (s *Service) Reset(ctx context.Context, playerID string) (bool, error) {
	start := time.Now()
	found := false
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		p, ok := doc.Player(playerID)
		if !ok {
			return false
		}
		p.Penalties.Reset()
		found = true
		return true
	})
	failure := domain.Failure("")
	if !found {
		failure = domain.PlayerNotFound
	}
	s.Observe(ctx, "resetPenalties", start, failure, err, logging.FieldPlayerID, playerID)
	return found && err == nil, err
}

// History returns the ledger entries; unknown players yield an empty history.
func (s *Service) History(ctx context.Context, playerID string) (HistoryResult, error) {
	res := HistoryResult{PlayerID: playerID, Entries: []players.PenaltyEntry{}}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		if p, ok := doc.Player(playerID); ok {
			res.TotalPoints = p.Penalties.TotalPoints
			res.Entries = append(res.Entries, p.Penalties.Entries...)
		}
	})
	return res, err
}

// Total returns the running total; unknown players yield 0.
func (s *Service) Total(ctx context.Context, playerID string) (int, error) {
	res, err := s.History(ctx, playerID)
	return res.TotalPoints, err
}

func labelFor(displayName, id string) string {
	if displayName != "" {
		return displayName
	}
	return id
}
