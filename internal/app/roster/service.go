package roster

import (
	"context"
	"sort"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/domain/teams"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// Service manages team seats and constructor points.
type Service struct {
	app.Deps
	teams *teams.Registry
}

// NewService constructs a roster service over the team registry.
func NewService(deps app.Deps, registry *teams.Registry) *Service {
	return &Service{Deps: deps, teams: registry}
}

// AssignResult reports a seat assignment.
type AssignResult struct {
	Failure  domain.Failure `json:"failure,omitempty"`
	PlayerID string         `json:"playerId"`
	TeamID   string         `json:"teamId"`
	Members  int            `json:"members"`
	Capacity int            `json:"capacity"`
}

// AssignTeam seats a driver in a team. The capacity check and the write happen
// in one store unit, so two requests for the last seat cannot both succeed.
func (s *Service) AssignTeam(ctx context.Context, playerID, teamID string) (AssignResult, error) {
	start := time.Now()
	res := AssignResult{PlayerID: playerID, TeamID: teamID}

	team, ok := s.teams.Get(teamID)
	if !ok {
		res.Failure = domain.TeamNotFound
		s.Observe(ctx, "assignTeam", start, res.Failure, nil,
			logging.FieldPlayerID, playerID, logging.FieldTeamID, teamID)
		return res, nil
	}
	res.TeamID = team.ID
	res.Capacity = team.Capacity

	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		p, ok := doc.Player(playerID)
		if !ok {
			res.Failure = domain.PlayerNotFound
			return false
		}
		if !p.IsDriver() {
			res.Failure = domain.NotADriver
			return false
		}
		members := countMembers(doc, team.ID, playerID)
		if members >= team.Capacity {
			res.Members = members
			res.Failure = domain.TeamFull
			return false
		}
		p.Team = team.ID
		res.Members = members + 1
		return true
	})
	s.Observe(ctx, "assignTeam", start, res.Failure, err,
		logging.FieldPlayerID, playerID, logging.FieldTeamID, team.ID)
	return res, err
}

// Release removes a player from their team. It reports false for unknown players.
func (s *Service) Release(ctx context.Context, playerID string) (bool, error) {
	start := time.Now()
	found := false
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		p, ok := doc.Player(playerID)
		if !ok {
			return false
		}
		found = true
		if p.Team == "" {
			return false
		}
		p.Team = ""
		return true
	})
	var failure domain.Failure
	if !found {
		failure = domain.PlayerNotFound
	}
	s.Observe(ctx, "releaseTeam", start, failure, err, logging.FieldPlayerID, playerID)
	return found && err == nil, err
}

// Constructor is one row of the constructors' championship.
type Constructor struct {
	Position    int      `json:"position"`
	TeamID      string   `json:"teamId"`
	Name        string   `json:"name"`
	TotalPoints int      `json:"totalPoints"`
	Drivers     []string `json:"drivers"`
}

// ConstructorStandings sums member points for every team, empty teams
// included. Ties go to the lower team id.
func (s *Service) ConstructorStandings(ctx context.Context) ([]Constructor, error) {
	var out []Constructor
	err := s.Records.View(ctx, func(doc *domain.Document) {
		byTeam := map[string]*Constructor{}
		out = make([]Constructor, 0, len(s.teams.All()))
		for _, t := range s.teams.All() {
			out = append(out, Constructor{TeamID: t.ID, Name: t.Name, Drivers: []string{}})
		}
		for i := range out {
			byTeam[out[i].TeamID] = &out[i]
		}
		for _, p := range doc.SortedPlayers() {
			c, ok := byTeam[p.Team]
			if !ok || p.Role != players.RoleDriver {
				continue
			}
			c.TotalPoints += p.TotalPoints
			c.Drivers = append(c.Drivers, p.ID)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].TeamID < out[j].TeamID
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}

// Member is a driver seated in a team.
type Member struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	TotalPoints int    `json:"totalPoints"`
}

// TeamRoster lists a team's drivers.
type TeamRoster struct {
	Failure domain.Failure `json:"failure,omitempty"`
	Team    teams.Team     `json:"team"`
	Drivers []Member       `json:"drivers"`
	Vacant  int            `json:"vacant"`
}

// TeamDrivers returns the drivers seated in teamID, by id.
func (s *Service) TeamDrivers(ctx context.Context, teamID string) (TeamRoster, error) {
	res := TeamRoster{Drivers: []Member{}}
	team, ok := s.teams.Get(teamID)
	if !ok {
		res.Failure = domain.TeamNotFound
		return res, nil
	}
	res.Team = team
	err := s.Records.View(ctx, func(doc *domain.Document) {
		for _, p := range doc.SortedPlayers() {
			if p.Team == team.ID && p.Role == players.RoleDriver {
				res.Drivers = append(res.Drivers, Member{PlayerID: p.ID, DisplayName: p.DisplayName, TotalPoints: p.TotalPoints})
			}
		}
	})
	res.Vacant = max(team.Capacity-len(res.Drivers), 0)
	return res, err
}

// Teams returns every team with its seat usage.
func (s *Service) Teams(ctx context.Context) ([]TeamRoster, error) {
	out := make([]TeamRoster, 0, len(s.teams.All()))
	for _, t := range s.teams.All() {
		r, err := s.TeamDrivers(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func countMembers(doc *domain.Document, teamID, except string) int {
	n := 0
	for id, p := range doc.Players {
		if id != except && p.Team == teamID && p.Role == players.RoleDriver {
			n++
		}
	}
	return n
}
