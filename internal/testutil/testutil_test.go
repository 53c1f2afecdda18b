package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/league-service/internal/domain/players"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	c := NewClock(now)
	c.Advance(time.Hour)
	if !c.Now().Equal(now.Add(time.Hour)) {
		t.Fatalf("expected clock to advance")
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	p := ApprovedDriver("1", "One")
	if !p.IsDriver() || p.Answers["ea_id"] != "One" {
		t.Fatalf("unexpected driver fixture %+v", p)
	}
	if a := Applicant("2", "Two"); a.Standing != players.StandingApplicant || !a.IsDriver() {
		t.Fatalf("expected driver-role applicant, got %+v", a)
	}
	r := DriverWithResults("3", 1, 2, 15)
	if r.TotalPoints != 43 || len(r.RaceHistory) != 3 {
		t.Fatalf("unexpected results fixture %+v", r)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer tok" {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	AssertStatus(t, ServeRequest(handler, req), http.StatusCreated)

	AssertStatus(t, ServeJSON(t, handler, http.MethodPost, "/json", map[string]int{"a": 1}, "tok"), http.StatusAccepted)
}

func TestSnippetTruncates(t *testing.T) {
	if got := snippet(strings.Repeat("x", 600)); len(got) != 303 {
		t.Fatalf("expected truncated snippet, got %d chars", len(got))
	}
}

func TestStubHTTPServer(t *testing.T) {
	sh := &StubHTTPServer{ListenErr: errors.New("boom"), ShutdownErr: errors.New("down")}
	if err := sh.ListenAndServe(); err == nil || err.Error() != "boom" {
		t.Fatalf("expected listen error, got %v", err)
	}
	if err := sh.Shutdown(context.Background()); err == nil {
		t.Fatalf("expected shutdown error")
	}
	if sh.Addr() != ":0" || sh.Handler() == nil {
		t.Fatalf("expected default addr and handler")
	}
	if sh.ListenCalls != 1 || sh.ShutdownCalls != 1 {
		t.Fatalf("expected listen/shutdown calls, got %+v", sh)
	}

	blocking := &StubHTTPServer{Unblock: make(chan struct{})}
	done := make(chan error, 1)
	go func() { done <- blocking.Shutdown(context.Background()) }()
	close(blocking.Unblock)
	if err := <-done; err != nil {
		t.Fatalf("expected nil shutdown err, got %v", err)
	}

	stuck := &StubHTTPServer{Unblock: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := stuck.Shutdown(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
}
