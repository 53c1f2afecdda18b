// Package league assembles the league services over one record store.
package league

import (
	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/app/adjudication"
	"github.com/preston-bernstein/league-service/internal/app/attendance"
	"github.com/preston-bernstein/league-service/internal/app/calendar"
	"github.com/preston-bernstein/league-service/internal/app/csvio"
	"github.com/preston-bernstein/league-service/internal/app/halloffame"
	"github.com/preston-bernstein/league-service/internal/app/lifecycle"
	"github.com/preston-bernstein/league-service/internal/app/penalties"
	appplayers "github.com/preston-bernstein/league-service/internal/app/players"
	"github.com/preston-bernstein/league-service/internal/app/roster"
	"github.com/preston-bernstein/league-service/internal/app/scoring"
	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/domain/teams"
	"github.com/preston-bernstein/league-service/internal/markers"
	"github.com/preston-bernstein/league-service/internal/notify"
)

// Services are the league operations sharing one record store.
type Services struct {
	Penalties    *penalties.Service
	Lifecycle    *lifecycle.Service
	Scoring      *scoring.Service
	Roster       *roster.Service
	Attendance   *attendance.Service
	Calendar     *calendar.Service
	HallOfFame   *halloffame.Service
	Adjudication *adjudication.Service
	Players      *appplayers.Service
	Transfer     *csvio.Service
	Markers      markers.Gateway
}

// Options selects league rules and the outward-facing collaborators.
// A nil Gateway keeps marker sets in the league document; a nil Sink drops
// notifications.
type Options struct {
	League  config.LeagueConfig
	Markers config.MarkerConfig
	Teams   *teams.Registry
	Gateway markers.Gateway
	Sink    notify.Sink
}

// NewServices wires every service over deps.
func NewServices(deps app.Deps, opts Options) *Services {
	gateway := opts.Gateway
	if gateway == nil {
		gateway = markers.NewDocumentGateway(deps.Records)
	}
	registry := opts.Teams
	if registry == nil {
		registry = teams.DefaultRegistry(opts.League.TeamCapacity)
	}
	planner := markers.NewPlanner(opts.Markers)

	ledger := penalties.NewService(deps, penalties.Policy{
		Limit:   opts.League.PenaltyLimit,
		AutoBan: opts.League.AutoBan,
	}, gateway, planner, opts.Sink)

	signups := attendance.NewService(deps, attendance.Options{
		InactivityThreshold: opts.League.InactivityThreshold,
		MaxGridSize:         opts.League.MaxGridSize,
	})

	return &Services{
		Penalties:    ledger,
		Lifecycle:    lifecycle.NewService(deps, gateway, planner, opts.Sink, opts.League.DecisionRetention),
		Scoring:      scoring.NewService(deps, scoring.RulesFromConfig(opts.League)),
		Roster:       roster.NewService(deps, registry),
		Attendance:   signups,
		Calendar:     calendar.NewService(deps),
		HallOfFame:   halloffame.NewService(deps),
		Adjudication: adjudication.NewService(deps, ledger, opts.Sink),
		Players:      appplayers.NewService(deps),
		Transfer:     csvio.NewService(deps),
		Markers:      gateway,
	}
}
