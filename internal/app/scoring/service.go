package scoring

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// Service scores races and derives championship tables.
type Service struct {
	app.Deps
	rules Rules
}

// NewService constructs a scoring service.
func NewService(deps app.Deps, rules Rules) *Service {
	return &Service{Deps: deps, rules: rules}
}

// ScoreRequest is a race result in finishing order.
type ScoreRequest struct {
	Race       string   `json:"race"`
	Finishers  []string `json:"finishers"`
	FastestLap string   `json:"fastestLap,omitempty"`
}

// ScoreEntry is the award for one scored finisher.
type ScoreEntry struct {
	PlayerID        string `json:"playerId"`
	DisplayName     string `json:"displayName"`
	Position        int    `json:"position"`
	Points          int    `json:"points"`
	FastestLap      bool   `json:"fastestLap"`
	FastestLapBonus bool   `json:"fastestLapBonus"`
	TotalPoints     int    `json:"totalPoints"`
}

// ScoreReport lists scored finishers in finishing order. Skipped holds ids that
// were not scored because they are unknown or not active drivers.
type ScoreReport struct {
	Failure   domain.Failure `json:"failure,omitempty"`
	Race      string         `json:"race"`
	Duplicate bool           `json:"duplicate"`
	Entries   []ScoreEntry   `json:"entries"`
	Skipped   []string       `json:"skipped,omitempty"`
}

// ScoreRace awards points for a race and runs the missed-race sweep over the
// whole roster in the same unit. Scoring the same race name twice appends a
// second result for every finisher; the report flags it as a duplicate.
func (s *Service) ScoreRace(ctx context.Context, req ScoreRequest) (ScoreReport, error) {
	start := time.Now()
	race := strings.TrimSpace(req.Race)
	report := ScoreReport{Race: race, Entries: []ScoreEntry{}}
	if race == "" || len(req.Finishers) == 0 {
		report.Failure = domain.InvalidInput
		s.Observe(ctx, "scoreRace", start, report.Failure, nil, logging.FieldRace, race)
		return report, nil
	}

	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		now := s.Clock()
		report.Duplicate = doc.HasRace(race)

		attended := make(map[string]struct{}, len(req.Finishers))
		participants := make([]string, 0, len(req.Finishers))
		for i, id := range req.Finishers {
			position := i + 1
			p, ok := doc.Player(id)
			if _, seen := attended[id]; seen || !ok {
				report.Skipped = append(report.Skipped, id)
				continue
			}
			attended[id] = struct{}{}
			participants = append(participants, id)

			fastest := req.FastestLap != "" && req.FastestLap == id
			points, bonus := s.rules.Points(position, fastest)
			p.RecordRace(players.RaceResult{
				Race:       race,
				Position:   position,
				Points:     points,
				FastestLap: fastest,
				At:         now,
			})
			report.Entries = append(report.Entries, ScoreEntry{
				PlayerID:        id,
				DisplayName:     p.DisplayName,
				Position:        position,
				Points:          points,
				FastestLap:      fastest,
				FastestLapBonus: bonus,
				TotalPoints:     p.TotalPoints,
			})
		}

		for _, p := range doc.Drivers() {
			if _, ok := attended[p.ID]; ok {
				p.MissedRaces = 0
			} else {
				p.MissedRaces++
			}
		}
		doc.RacesHistory = append(doc.RacesHistory, domain.RaceLog{
			Race:         race,
			At:           now,
			Participants: participants,
		})
		return true
	})
	if err == nil {
		s.Metrics.RecordRaceScored(len(report.Entries))
		if report.Duplicate {
			logging.Warn(logging.FromContext(ctx, s.Logger), "race scored again under the same name",
				logging.FieldRace, race)
		}
	}
	s.Observe(ctx, "scoreRace", start, "", err,
		logging.FieldRace, race, "finishers", len(report.Entries), "skipped", len(report.Skipped))
	return report, err
}

// StandingEntry is one row of the drivers' championship.
type StandingEntry struct {
	Position       int    `json:"position"`
	PlayerID       string `json:"playerId"`
	DisplayName    string `json:"displayName"`
	Team           string `json:"team,omitempty"`
	TotalPoints    int    `json:"totalPoints"`
	RacesCompleted int    `json:"racesCompleted"`
}

// Standings orders drivers by points, highest first; ties go to the lower id.
func (s *Service) Standings(ctx context.Context) ([]StandingEntry, error) {
	out := []StandingEntry{}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		drivers := doc.Drivers()
		sort.SliceStable(drivers, func(i, j int) bool {
			return drivers[i].TotalPoints > drivers[j].TotalPoints
		})
		for i, p := range drivers {
			out = append(out, StandingEntry{
				Position:       i + 1,
				PlayerID:       p.ID,
				DisplayName:    p.DisplayName,
				Team:           p.Team,
				TotalPoints:    p.TotalPoints,
				RacesCompleted: len(p.RaceHistory),
			})
		}
	})
	return out, err
}

// QualifyingRequest records one qualifying session for a driver.
type QualifyingRequest struct {
	PlayerID string `json:"playerId"`
	Race     string `json:"race"`
	Position int    `json:"position"`
}

// QualifyingReport echoes the recorded session.
type QualifyingReport struct {
	Failure    domain.Failure `json:"failure,omitempty"`
	PlayerID   string         `json:"playerId"`
	Position   int            `json:"position"`
	IsPole     bool           `json:"isPole"`
	TotalPoles int            `json:"totalPoles"`
}

// Qualifying records a qualifying position; position 1 adds a pole.
func (s *Service) Qualifying(ctx context.Context, req QualifyingRequest) (QualifyingReport, error) {
	start := time.Now()
	res := QualifyingReport{PlayerID: req.PlayerID, Position: req.Position}
	if req.Position < 1 {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "qualifying", start, res.Failure, nil, logging.FieldPlayerID, req.PlayerID)
		return res, nil
	}
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		p, ok := doc.Player(req.PlayerID)
		if !ok {
			res.Failure = domain.PlayerNotFound
			return false
		}
		res.IsPole = p.RecordQualifying(players.QualifyingResult{
			Race:     strings.TrimSpace(req.Race),
			Position: req.Position,
			At:       s.Clock(),
		})
		res.TotalPoles = p.Poles
		return true
	})
	s.Observe(ctx, "qualifying", start, res.Failure, err,
		logging.FieldPlayerID, req.PlayerID, logging.FieldRace, req.Race)
	return res, err
}

// StatsResult wraps a driver's derived statistics.
type StatsResult struct {
	Failure domain.Failure `json:"failure,omitempty"`
	Stats   players.Stats  `json:"stats"`
}

// DriverStats derives career statistics from the race history.
func (s *Service) DriverStats(ctx context.Context, playerID string) (StatsResult, error) {
	var res StatsResult
	err := s.Records.View(ctx, func(doc *domain.Document) {
		p, ok := doc.Player(playerID)
		switch {
		case !ok:
			res.Failure = domain.PlayerNotFound
		case p.Role != players.RoleDriver:
			res.Failure = domain.NotADriver
		default:
			res.Stats = players.ComputeStats(p)
		}
	})
	return res, err
}

// RaceHistory is a driver's scored results in submission order.
type RaceHistory struct {
	Failure  domain.Failure       `json:"failure,omitempty"`
	PlayerID string               `json:"playerId"`
	Results  []players.RaceResult `json:"results"`
}

// RaceHistory returns the race results of one player.
func (s *Service) RaceHistory(ctx context.Context, playerID string) (RaceHistory, error) {
	res := RaceHistory{PlayerID: playerID, Results: []players.RaceResult{}}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		p, ok := doc.Player(playerID)
		if !ok {
			res.Failure = domain.PlayerNotFound
			return
		}
		res.Results = append(res.Results, p.RaceHistory...)
	})
	return res, err
}

// QualifyingHistory is a driver's qualifying sessions.
type QualifyingHistory struct {
	Failure  domain.Failure             `json:"failure,omitempty"`
	PlayerID string                     `json:"playerId"`
	Poles    int                        `json:"poles"`
	Sessions []players.QualifyingResult `json:"sessions"`
}

// QualifyingHistory returns the qualifying sessions of one player.
func (s *Service) QualifyingHistory(ctx context.Context, playerID string) (QualifyingHistory, error) {
	res := QualifyingHistory{PlayerID: playerID, Sessions: []players.QualifyingResult{}}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		p, ok := doc.Player(playerID)
		if !ok {
			res.Failure = domain.PlayerNotFound
			return
		}
		res.Poles = p.Poles
		res.Sessions = append(res.Sessions, p.QualifyingHistory...)
	})
	return res, err
}

// Races returns the scored-race log, oldest first.
func (s *Service) Races(ctx context.Context) ([]domain.RaceLog, error) {
	out := []domain.RaceLog{}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		out = append(out, doc.RacesHistory...)
	})
	return out, err
}
