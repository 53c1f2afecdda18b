package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/app/league"
	"github.com/preston-bernstein/league-service/internal/app/scoring"
	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/http/handlers"
	"github.com/preston-bernstein/league-service/internal/metrics"
	"github.com/preston-bernstein/league-service/internal/store"
	"github.com/preston-bernstein/league-service/internal/teststubs"
	"github.com/preston-bernstein/league-service/internal/testutil"
)

const adminToken = "secret"

type env struct {
	router  http.Handler
	records *store.Records
	svc     *league.Services
	sink    *teststubs.RecordingSink
}

func newEnv(t *testing.T, httpCfg config.HTTPConfig) env {
	t.Helper()
	logger, _ := testutil.NewBufferLogger()
	records := store.NewRecords(store.NewMemoryStore(), logger)
	sink := &teststubs.RecordingSink{}
	deps := app.Deps{Records: records, Logger: logger, Now: testutil.NowAt(testutil.FixedTime)}
	svc := league.NewServices(deps, league.Options{
		League: config.LeagueConfig{
			PenaltyLimit:        12,
			AutoBan:             true,
			InactivityThreshold: 2,
			MaxGridSize:         20,
			TeamCapacity:        2,
			PointsTable:         []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
			FastestLapBonus:     1,
			FastestLapMaxPos:    10,
			DecisionRetention:   time.Hour,
		},
		Markers: testutil.MarkerNames(),
		Sink:    sink,
	})
	router := NewRouter(handlers.NewHandler(svc, logger, nil), RouterConfig{
		Logger:     logger,
		Metrics:    metrics.NewRecorder(),
		HTTP:       httpCfg,
		AdminToken: adminToken,
	})
	return env{router: router, records: records, svc: svc, sink: sink}
}

func (e env) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.ServeJSON(t, e.router, method, path, payload, adminToken)
}

func TestHealthAndReadyAreOpen(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})
	testutil.AssertStatus(t, testutil.Serve(e.router, http.MethodGet, "/health", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(e.router, http.MethodGet, "/ready", nil), http.StatusOK)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})
	rr := testutil.Serve(e.router, http.MethodGet, "/api/v1/nope", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "not found" || body["requestId"] == "" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})

	rr := testutil.ServeJSON(t, e.router, http.MethodPost, "/api/v1/races", map[string]any{"race": "Bahrain"}, "")
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = testutil.Serve(e.router, http.MethodGet, "/api/v1/standings", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestApplicationToStandingsFlow(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})

	rr := e.do(t, http.MethodPost, "/api/v1/applications", map[string]any{
		"playerId": "p1", "displayName": "Lando", "role": "driver",
		"answers": map[string]string{"ea_id": "lando_ea"},
	})
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
	var declined struct {
		Reason string `json:"reason"`
	}
	testutil.DecodeJSON(t, rr, &declined)
	if declined.Reason != "MissingAnswers" {
		t.Fatalf("expected MissingAnswers, got %s", declined.Reason)
	}

	rr = e.do(t, http.MethodPost, "/api/v1/applications", map[string]any{
		"playerId": "p1", "displayName": "Lando", "role": "driver",
		"answers": testutil.DriverAnswers("lando_ea"),
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = e.do(t, http.MethodPost, "/api/v1/applications/p1/transition", map[string]any{"action": "approve", "actor": "admin"})
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = e.do(t, http.MethodPost, "/api/v1/applications/p1/transition", map[string]any{"action": "approve", "actor": "admin"})
	testutil.AssertStatus(t, rr, http.StatusConflict)

	rr = e.do(t, http.MethodGet, "/api/v1/players/p1/markers", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var marks struct {
		Markers []string `json:"markers"`
	}
	testutil.DecodeJSON(t, rr, &marks)
	if strings.Join(marks.Markers, ",") != "driver" {
		t.Fatalf("expected driver marker, got %v", marks.Markers)
	}

	rr = e.do(t, http.MethodPost, "/api/v1/races", map[string]any{
		"race": "Bahrain", "finishers": []string{"p1", "ghost"}, "fastestLap": "p1",
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var report scoring.ScoreReport
	testutil.DecodeJSON(t, rr, &report)
	if len(report.Entries) != 1 || report.Entries[0].Points != 26 {
		t.Fatalf("unexpected report %+v", report)
	}

	rr = testutil.Serve(e.router, http.MethodGet, "/api/v1/standings", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var table []scoring.StandingEntry
	testutil.DecodeJSON(t, rr, &table)
	if len(table) != 1 || table[0].PlayerID != "p1" || table[0].TotalPoints != 26 {
		t.Fatalf("unexpected standings %+v", table)
	}
}

func TestTeamAssignmentFailures(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})
	steward := testutil.ApprovedDriver("a1", "New")
	steward.Role = players.RoleSteward
	testutil.Seed(t, e.records, testutil.ApprovedDriver("d1", "Max"), steward)

	rr := e.do(t, http.MethodPut, "/api/v1/players/d1/team", map[string]string{"teamId": "nowhere"})
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = e.do(t, http.MethodPut, "/api/v1/players/a1/team", map[string]string{"teamId": "ferrari"})
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)

	rr = e.do(t, http.MethodPut, "/api/v1/players/d1/team", map[string]string{"teamId": "ferrari"})
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.Serve(e.router, http.MethodGet, "/api/v1/teams/ferrari", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestIncidentDecisionAppliesPenalty(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})
	testutil.Seed(t, e.records, testutil.ApprovedDriver("d1", "Max"))

	rr := e.do(t, http.MethodPost, "/api/v1/incidents", map[string]any{
		"reporterId": "d2", "drivers": "Max", "session": "Race", "description": "divebomb at turn 1",
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var filed struct {
		Incident struct {
			Ref string `json:"ref"`
		} `json:"incident"`
	}
	testutil.DecodeJSON(t, rr, &filed)
	if filed.Incident.Ref == "" {
		t.Fatalf("expected incident ref")
	}

	rr = e.do(t, http.MethodPost, "/api/v1/incidents/"+filed.Incident.Ref+"/decision", map[string]any{
		"actor": "steward", "verdict": "guilty", "reasoning": "late lunge", "penalizedId": "d1", "points": 3,
	})
	testutil.AssertStatus(t, rr, http.StatusOK)

	total, err := e.svc.Penalties.Total(context.Background(), "d1")
	if err != nil || total != 3 {
		t.Fatalf("expected 3 points, got %d (%v)", total, err)
	}

	rr = e.do(t, http.MethodPost, "/api/v1/incidents/"+filed.Incident.Ref+"/decision", map[string]any{
		"actor": "steward", "verdict": "guilty", "reasoning": "again",
	})
	testutil.AssertStatus(t, rr, http.StatusConflict)
}

func TestCalendarRoutes(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})

	rr := testutil.Serve(e.router, http.MethodGet, "/api/v1/calendar/next", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = e.do(t, http.MethodPost, "/api/v1/calendar", map[string]any{
		"round": 1, "name": "Bahrain", "track": "Sakhir", "scheduledAt": testutil.FixedTime.Add(48 * time.Hour),
	})
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.Serve(e.router, http.MethodGet, "/api/v1/calendar/next", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = e.do(t, http.MethodPost, "/api/v1/calendar/x/complete", nil)
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)

	rr = e.do(t, http.MethodPost, "/api/v1/calendar/1/complete", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestCSVExportAndImport(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{})
	testutil.Seed(t, e.records, testutil.ApprovedDriver("d1", "Max"))

	rr := e.do(t, http.MethodGet, "/api/v1/export.csv", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("expected csv content type, got %s", rr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rr.Body.String(), "User ID,Username,Role") {
		t.Fatalf("unexpected export %s", rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader("name,points\nx,1\n"))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	testutil.AssertStatus(t, testutil.ServeRequest(e.router, req), http.StatusBadRequest)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader("User ID,Username,Total Points\nd2,Oscar,40\n"))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = testutil.ServeRequest(e.router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = e.do(t, http.MethodGet, "/api/v1/players?role=driver", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var list []struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, rr, &list)
	if len(list) != 2 {
		t.Fatalf("expected two drivers after import, got %d", len(list))
	}

	rr = e.do(t, http.MethodGet, "/api/v1/players?role=pilot", nil)
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{RateLimitEnabled: true, RateLimitReqs: 2, RateLimitWindow: time.Hour})

	testutil.AssertStatus(t, testutil.Serve(e.router, http.MethodGet, "/api/v1/standings", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(e.router, http.MethodGet, "/api/v1/standings", nil), http.StatusTooManyRequests)
	testutil.AssertStatus(t, testutil.Serve(e.router, http.MethodGet, "/health", nil), http.StatusOK)
}

func TestForwardedForOnlyCountsBehindTrustedProxy(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantSecond int
	}{
		{name: "direct clients share the connection bucket", trustProxy: false, wantSecond: http.StatusTooManyRequests},
		{name: "trusted proxy splits buckets per forwarded client", trustProxy: true, wantSecond: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, config.HTTPConfig{
				RateLimitEnabled: true,
				RateLimitReqs:    2,
				RateLimitWindow:  time.Hour,
				TrustProxy:       tt.trustProxy,
			})

			codes := make([]int, 0, 2)
			for _, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/standings", nil)
				req.RemoteAddr = "10.0.0.9:5000"
				req.Header.Set("X-Forwarded-For", forwarded)
				codes = append(codes, testutil.ServeRequest(e.router, req).Code)
			}
			if codes[0] != http.StatusOK || codes[1] != tt.wantSecond {
				t.Fatalf("expected [200 %d], got %v", tt.wantSecond, codes)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newEnv(t, config.HTTPConfig{CORSAllowOrigins: []string{"https://league.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/standings", nil)
	req.Header.Set("Origin", "https://league.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := testutil.ServeRequest(e.router, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://league.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
