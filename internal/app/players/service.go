package players

import (
	"context"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// Service exposes player records to admins.
type Service struct {
	app.Deps
}

// NewService constructs a player admin service.
func NewService(deps app.Deps) *Service {
	return &Service{Deps: deps}
}

// Result wraps a player copy with a failure reason.
type Result struct {
	Failure domain.Failure  `json:"failure,omitempty"`
	Player  *players.Player `json:"player,omitempty"`
}

// Get returns a copy of one player.
func (s *Service) Get(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.Records.View(ctx, func(doc *domain.Document) {
		p, ok := doc.Player(id)
		if !ok {
			res.Failure = domain.PlayerNotFound
			return
		}
		res.Player = p.Clone()
	})
	return res, err
}

// List returns players ordered by id. An empty role returns everyone.
func (s *Service) List(ctx context.Context, role players.Role) ([]*players.Player, error) {
	out := []*players.Player{}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		for _, p := range doc.SortedPlayers() {
			if role == "" || p.Role == role {
				out = append(out, p.Clone())
			}
		}
	})
	return out, err
}

// Unregister deletes a player and their attendance declaration.
func (s *Service) Unregister(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "unregister", id, func(doc *domain.Document, _ *players.Player) {
		delete(doc.Players, id)
		delete(doc.Attendance, id)
	})
}

// ResetMissedRaces zeroes the player's missed-race counter.
func (s *Service) ResetMissedRaces(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "resetMissedRaces", id, func(_ *domain.Document, p *players.Player) {
		p.MissedRaces = 0
	})
}

func (s *Service) mutate(ctx context.Context, operation, id string, fn func(doc *domain.Document, p *players.Player)) (bool, error) {
	start := time.Now()
	found := false
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		p, ok := doc.Player(id)
		if !ok {
			return false
		}
		found = true
		fn(doc, p)
		return true
	})
	var failure domain.Failure
	if !found {
		failure = domain.PlayerNotFound
	}
	s.Observe(ctx, operation, start, failure, err, logging.FieldPlayerID, id)
	return found && err == nil, err
}
