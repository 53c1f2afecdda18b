package attendance

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/attendance"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// Options are the attendance rules of the league.
type Options struct {
	InactivityThreshold int
	MaxGridSize         int
}

// Service tracks race sign-ups and inactivity.
type Service struct {
	app.Deps
	opts Options
}

// NewService constructs an attendance service.
func NewService(deps app.Deps, opts Options) *Service {
	return &Service{Deps: deps, opts: opts}
}

// RecordRequest is one sign-up declaration.
type RecordRequest struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
}

// RecordResult reports the stored declaration.
type RecordResult struct {
	Failure    domain.Failure    `json:"failure,omitempty"`
	PlayerID   string            `json:"playerId"`
	Status     attendance.Status `json:"status,omitempty"`
	Registered bool              `json:"registered"`
}

// Record upserts the player's declaration for the current cycle. Members
// without a player record may sign up; registered players also get their
// activity refreshed.
func (s *Service) Record(ctx context.Context, req RecordRequest) (RecordResult, error) {
	start := time.Now()
	res := RecordResult{PlayerID: req.PlayerID}
	status, ok := attendance.ParseStatus(req.Status)
	if !ok || strings.TrimSpace(req.PlayerID) == "" {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "recordAttendance", start, res.Failure, nil, logging.FieldPlayerID, req.PlayerID)
		return res, nil
	}
	res.Status = status

	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		now := s.Clock()
		name := req.DisplayName
		if p, exists := doc.Player(req.PlayerID); exists {
			p.LastActivity = now
			res.Registered = true
			if name == "" {
				name = p.DisplayName
			}
		}
		doc.Attendance[req.PlayerID] = attendance.Record{DisplayName: name, Status: status, UpdatedAt: now}
		return true
	})
	s.Observe(ctx, "recordAttendance", start, "", err,
		logging.FieldPlayerID, req.PlayerID, "status", string(status))
	return res, err
}

// Reset clears every declaration and returns how many were removed.
func (s *Service) Reset(ctx context.Context) (int, error) {
	start := time.Now()
	cleared := 0
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		cleared = len(doc.Attendance)
		doc.Attendance = map[string]attendance.Record{}
		return true
	})
	s.Observe(ctx, "resetAttendance", start, "", err, "cleared", cleared)
	return cleared, err
}

// Entry is one declaration in sign-up order.
type Entry struct {
	PlayerID string `json:"playerId"`
	attendance.Record
}

// Summary lists current declarations, oldest first, with per-status counts.
type Summary struct {
	Counts  map[attendance.Status]int `json:"counts"`
	Entries []Entry                   `json:"entries"`
}

// Current returns the declarations of the running cycle.
func (s *Service) Current(ctx context.Context) (Summary, error) {
	out := Summary{Counts: map[attendance.Status]int{}, Entries: []Entry{}}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		out.Entries = signUpOrder(doc, func(attendance.Record) bool { return true })
		for _, e := range out.Entries {
			out.Counts[e.Status]++
		}
	})
	return out, err
}

// Inactive is a driver at or over the missed-race threshold.
type Inactive struct {
	PlayerID     string    `json:"playerId"`
	DisplayName  string    `json:"displayName"`
	MissedRaces  int       `json:"missedRaces"`
	LastActivity time.Time `json:"lastActivity"`
}

// InactivePlayers lists drivers with MissedRaces >= threshold. A threshold of
// zero or less uses the configured default.
func (s *Service) InactivePlayers(ctx context.Context, threshold int) ([]Inactive, error) {
	if threshold <= 0 {
		threshold = s.opts.InactivityThreshold
	}
	out := []Inactive{}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		for _, p := range doc.Drivers() {
			if p.MissedRaces >= threshold {
				out = append(out, Inactive{
					PlayerID:     p.ID,
					DisplayName:  p.DisplayName,
					MissedRaces:  p.MissedRaces,
					LastActivity: p.LastActivity,
				})
			}
		}
	})
	return out, err
}

// LineupEntry is a confirmed driver with their game id.
type LineupEntry struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	EAID        string `json:"eaId,omitempty"`
	Team        string `json:"team,omitempty"`
}

// Lineup splits confirmed drivers into the main grid and reserves.
type Lineup struct {
	Main     []LineupEntry `json:"main"`
	Reserves []LineupEntry `json:"reserves"`
}

// Lineup returns confirmed drivers in sign-up order. The first MaxGridSize
// form the main grid.
func (s *Service) Lineup(ctx context.Context) (Lineup, error) {
	out := Lineup{Main: []LineupEntry{}, Reserves: []LineupEntry{}}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		confirmed := signUpOrder(doc, func(r attendance.Record) bool {
			return r.Status == attendance.StatusConfirmedDriver
		})
		for _, e := range confirmed {
			entry := LineupEntry{PlayerID: e.PlayerID, DisplayName: e.DisplayName}
			if p, ok := doc.Player(e.PlayerID); ok {
				entry.EAID = p.Answers["ea_id"]
				entry.Team = p.Team
				if entry.DisplayName == "" {
					entry.DisplayName = p.DisplayName
				}
			}
			if len(out.Main) < s.opts.MaxGridSize {
				out.Main = append(out.Main, entry)
			} else {
				out.Reserves = append(out.Reserves, entry)
			}
		}
	})
	return out, err
}

func signUpOrder(doc *domain.Document, keep func(attendance.Record) bool) []Entry {
	out := make([]Entry, 0, len(doc.Attendance))
	for id, r := range doc.Attendance {
		if keep(r) {
			out = append(out, Entry{PlayerID: id, Record: r})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
