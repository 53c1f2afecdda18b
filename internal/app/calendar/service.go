package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/calendar"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// Service maintains the season calendar.
type Service struct {
	app.Deps
}

// NewService constructs a calendar service.
func NewService(deps app.Deps) *Service {
	return &Service{Deps: deps}
}

// AddRequest schedules one round.
type AddRequest struct {
	Round       int       `json:"round"`
	Name        string    `json:"name"`
	Track       string    `json:"track"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// EntryResult wraps a calendar entry with a failure reason.
type EntryResult struct {
	Failure domain.Failure `json:"failure,omitempty"`
	Entry   calendar.Entry `json:"entry"`
	Updated bool           `json:"updated,omitempty"`
}

// AddRace schedules a round. An existing round with the same number is
// rescheduled and its reminder re-armed.
func (s *Service) AddRace(ctx context.Context, req AddRequest) (EntryResult, error) {
	start := time.Now()
	var res EntryResult
	name := strings.TrimSpace(req.Name)
	if req.Round < 1 || name == "" || req.ScheduledAt.IsZero() {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "addRace", start, res.Failure, nil, logging.FieldRound, req.Round)
		return res, nil
	}
	entry := calendar.Entry{
		Round:       req.Round,
		Name:        name,
		Track:       strings.TrimSpace(req.Track),
		ScheduledAt: req.ScheduledAt.UTC(),
	}
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		if i, ok := calendar.Find(doc.Calendar, req.Round); ok {
			doc.Calendar[i] = entry
			res.Updated = true
		} else {
			doc.Calendar = append(doc.Calendar, entry)
		}
		calendar.Sort(doc.Calendar)
		return true
	})
	res.Entry = entry
	s.Observe(ctx, "addRace", start, "", err, logging.FieldRound, req.Round, logging.FieldRace, name)
	return res, err
}

// NextRace returns the earliest upcoming round.
func (s *Service) NextRace(ctx context.Context) (EntryResult, error) {
	var res EntryResult
	err := s.Records.View(ctx, func(doc *domain.Document) {
		i, ok := calendar.Next(doc.Calendar, s.Clock())
		if !ok {
			res.Failure = domain.RaceNotFound
			return
		}
		res.Entry = doc.Calendar[i]
	})
	return res, err
}

// MarkCompleted flags a round as run.
func (s *Service) MarkCompleted(ctx context.Context, round int) (EntryResult, error) {
	start := time.Now()
	var res EntryResult
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		i, ok := calendar.Find(doc.Calendar, round)
		if !ok {
			res.Failure = domain.RaceNotFound
			return false
		}
		doc.Calendar[i].Completed = true
		res.Entry = doc.Calendar[i]
		return true
	})
	s.Observe(ctx, "markCompleted", start, res.Failure, err, logging.FieldRound, round)
	return res, err
}

// Completed lists finished rounds in schedule order.
func (s *Service) Completed(ctx context.Context) ([]calendar.Entry, error) {
	return s.filter(ctx, func(e calendar.Entry) bool { return e.Completed })
}

// All lists the whole calendar in schedule order.
func (s *Service) All(ctx context.Context) ([]calendar.Entry, error) {
	return s.filter(ctx, func(calendar.Entry) bool { return true })
}

func (s *Service) filter(ctx context.Context, keep func(calendar.Entry) bool) ([]calendar.Entry, error) {
	out := []calendar.Entry{}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		for _, e := range doc.Calendar {
			if keep(e) {
				out = append(out, e)
			}
		}
	})
	calendar.Sort(out)
	return out, err
}
