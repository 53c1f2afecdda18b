package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/league-service/internal/http/requestutil"
	"github.com/preston-bernstein/league-service/internal/metrics"
	"github.com/preston-bernstein/league-service/internal/testutil"
)

func newRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	for _, m := range mw {
		r.Use(m)
	}
	r.Get("/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		if requestutil.RequestIDFromContext(r.Context()) == "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusTeapot)
	})
	return r
}

func TestLoggingSetsRequestIDAndLogsRoutePattern(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	router := newRouter(Logging(logger, metrics.NewRecorder()))

	rr := testutil.Serve(router, http.MethodGet, "/players/42", nil)

	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	out := buf.String()
	if !strings.Contains(out, "request complete") || !strings.Contains(out, "/players/{playerID}") {
		t.Fatalf("expected route pattern in log, got %s", out)
	}
}

func TestLoggingKeepsValidIncomingRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	router := newRouter(Logging(logger, nil))

	req := httptest.NewRequest(http.MethodGet, "/players/1", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := testutil.ServeRequest(router, req)

	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected incoming id to be kept, got %s", got)
	}
}

func TestNormalizePathWithoutRoute(t *testing.T) {
	if got := normalizePath(nil); got != unmatchedRoute {
		t.Fatalf("expected %s, got %s", unmatchedRoute, got)
	}
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := normalizePath(req); got != unmatchedRoute {
		t.Fatalf("expected %s, got %s", unmatchedRoute, got)
	}
}

func TestResponseWriterTracksStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}
	w.WriteHeader(http.StatusAccepted)
	if w.status != http.StatusAccepted || rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d/%d", w.status, rr.Code)
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	router := newRouter(Logging(logger, nil), RateLimit(2, time.Hour, logger))

	first := testutil.Serve(router, http.MethodGet, "/players/1", nil)
	testutil.AssertStatus(t, first, http.StatusTeapot)

	second := testutil.Serve(router, http.MethodGet, "/players/1", nil)
	testutil.AssertStatus(t, second, http.StatusTooManyRequests)
	if second.Header().Get("Retry-After") != "3600" {
		t.Fatalf("expected Retry-After 3600, got %q", second.Header().Get("Retry-After"))
	}
	var body struct {
		Error     string `json:"error"`
		RequestID string `json:"requestId"`
	}
	testutil.DecodeJSON(t, second, &body)
	if body.Error == "" || body.RequestID == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	router := newRouter(RateLimit(2, time.Hour, nil))

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/players/1", nil)
		req.RemoteAddr = addr
		req = req.WithContext(requestutil.WithRequestID(req.Context(), "x"))
		rr := testutil.ServeRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusTeapot)
	}
}

func TestNewIPLimiterClampsInput(t *testing.T) {
	l := newIPLimiter(0, 0)
	if l.burst != 1 || l.rate <= 0 {
		t.Fatalf("expected clamped limiter, got burst=%d rate=%v", l.burst, l.rate)
	}
	if l.limiter("a") != l.limiter("a") {
		t.Fatalf("expected limiter reuse per ip")
	}
}

func TestIPLimiterDropsIdleClients(t *testing.T) {
	l := newIPLimiter(2, time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.limiter("10.0.0.1")
	l.limiter("10.0.0.2")
	if got := l.size(); got != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", got)
	}

	now = now.Add(30 * time.Second)
	l.limiter("10.0.0.2")
	now = now.Add(45 * time.Second)
	l.limiter("10.0.0.3")
	if got := l.size(); got != 2 {
		t.Fatalf("expected idle client to be dropped, got %d tracked", got)
	}
	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Fatalf("expected 10.0.0.1 to be dropped")
	}
}

func TestRateLimitIgnoresForwardedHeaders(t *testing.T) {
	router := newRouter(RateLimit(2, time.Hour, nil))

	codes := make([]int, 0, 2)
	for _, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/players/1", nil)
		req.RemoteAddr = "10.0.0.9:5000"
		req.Header.Set("X-Forwarded-For", forwarded)
		req = req.WithContext(requestutil.WithRequestID(req.Context(), "x"))
		codes = append(codes, testutil.ServeRequest(router, req).Code)
	}
	if codes[0] != http.StatusTeapot || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected spoofed headers to share one bucket, got %v", codes)
	}
}

func TestAdminAuth(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	router := newRouter(Logging(logger, nil), AdminAuth("secret", logger))

	rr := testutil.Serve(router, http.MethodGet, "/players/1", nil)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	if !strings.Contains(buf.String(), "admin unauthorized") {
		t.Fatalf("expected unauthorized warning")
	}

	rr = testutil.ServeJSON(t, router, http.MethodGet, "/players/1", nil, "wrong")
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = testutil.ServeJSON(t, router, http.MethodGet, "/players/1", nil, "secret")
	testutil.AssertStatus(t, rr, http.StatusTeapot)
}

func TestAdminAuthDisabledWithEmptyToken(t *testing.T) {
	router := newRouter(Logging(nil, nil), AdminAuth("", nil))
	rr := testutil.Serve(router, http.MethodGet, "/players/1", nil)
	testutil.AssertStatus(t, rr, http.StatusTeapot)
}
