package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/http/handlers"
	"github.com/preston-bernstein/league-service/internal/http/middleware"
	"github.com/preston-bernstein/league-service/internal/http/respond"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/metrics"
)

// RouterConfig carries the middleware settings for NewRouter.
type RouterConfig struct {
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
	HTTP       config.HTTPConfig
	AdminToken string
}

// NewRouter registers the league API on a chi router.
func NewRouter(h *handlers.Handler, cfg RouterConfig) nethttp.Handler {
	r := chi.NewRouter()

	if cfg.HTTP.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	r.Use(chimw.Recoverer)

	c := corslib.New(corslib.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowedMethods: []string{
			nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodPut,
			nethttp.MethodDelete, nethttp.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	r.NotFound(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		respond.Error(w, req, nethttp.StatusNotFound, "not found", cfg.Logger)
	})
	r.MethodNotAllowed(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		respond.Error(w, req, nethttp.StatusMethodNotAllowed, "method not allowed", cfg.Logger)
	})

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	if cfg.AdminToken == "" {
		logging.Warn(cfg.Logger, "admin token not set; admin routes are unauthenticated")
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.HTTP.RateLimitEnabled {
			api.Use(middleware.RateLimit(cfg.HTTP.RateLimitReqs, cfg.HTTP.RateLimitWindow, cfg.Logger))
		}

		api.Get("/standings", h.Standings)
		api.Get("/standings/constructors", h.ConstructorStandings)
		api.Get("/teams", h.Teams)
		api.Get("/teams/{teamID}", h.Team)
		api.Get("/races", h.Races)
		api.Get("/calendar", h.Calendar)
		api.Get("/calendar/next", h.NextRace)
		api.Get("/calendar/completed", h.CompletedRaces)
		api.Get("/records", h.HallOfFame)
		api.Get("/attendance", h.Attendance)
		api.Get("/attendance/lineup", h.Lineup)
		api.Get("/players/{playerID}/stats", h.DriverStats)
		api.Get("/players/{playerID}/races", h.RaceHistory)
		api.Get("/players/{playerID}/qualifying", h.QualifyingHistory)

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminAuth(cfg.AdminToken, cfg.Logger))

			admin.Post("/applications", h.SubmitApplication)
			admin.Get("/applications/{playerID}", h.Application)
			admin.Post("/applications/{playerID}/transition", h.TransitionApplication)

			admin.Get("/players", h.ListPlayers)
			admin.Get("/players/{playerID}", h.Player)
			admin.Delete("/players/{playerID}", h.Unregister)
			admin.Post("/players/{playerID}/missed-races/reset", h.ResetMissedRaces)
			admin.Get("/players/{playerID}/penalties", h.PenaltyHistory)
			admin.Post("/players/{playerID}/penalties", h.AddPenalty)
			admin.Delete("/players/{playerID}/penalties", h.ResetPenalties)
			admin.Put("/players/{playerID}/team", h.AssignTeam)
			admin.Delete("/players/{playerID}/team", h.ReleaseTeam)
			admin.Get("/players/{playerID}/markers", h.Markers)
			admin.Put("/players/{playerID}/markers", h.ReplaceMarkers)

			admin.Post("/races", h.ScoreRace)
			admin.Post("/qualifying", h.Qualifying)
			admin.Post("/records/recompute", h.RecomputeHallOfFame)

			admin.Post("/calendar", h.ScheduleRace)
			admin.Post("/calendar/{round}/complete", h.CompleteRace)

			admin.Post("/attendance", h.RecordAttendance)
			admin.Delete("/attendance", h.ResetAttendance)
			admin.Get("/attendance/inactive", h.InactivePlayers)

			admin.Post("/incidents", h.ReportIncident)
			admin.Get("/incidents", h.Incidents)
			admin.Get("/incidents/{ref}", h.Incident)
			admin.Post("/incidents/{ref}/decision", h.DecideIncident)

			admin.Get("/export.csv", h.ExportCSV)
			admin.Post("/import", h.ImportCSV)
		})
	})

	return r
}
