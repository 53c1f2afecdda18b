// Package halloffame recomputes and serves the league's all-time records.
package halloffame

import (
	"context"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/records"
)

// Service owns the hall-of-fame section of the document.
type Service struct {
	app.Deps
}

// NewService constructs a hall-of-fame service.
func NewService(deps app.Deps) *Service {
	return &Service{Deps: deps}
}

// Recompute scans every driver's history and persists the result.
func (s *Service) Recompute(ctx context.Context) (records.HallOfFame, error) {
	start := time.Now()
	var out records.HallOfFame
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		out = records.Compute(doc.SortedPlayers(), s.Clock())
		doc.Records = out
		return true
	})
	s.Observe(ctx, "recomputeRecords", start, "", err)
	return out, err
}

// Stored returns the last persisted hall of fame without recomputing.
func (s *Service) Stored(ctx context.Context) (records.HallOfFame, error) {
	var out records.HallOfFame
	err := s.Records.View(ctx, func(doc *domain.Document) {
		out = doc.Records
	})
	return out, err
}
