package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/attendance"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/store"
	"github.com/preston-bernstein/league-service/internal/testutil"
)

func newService(t *testing.T, opts Options, list ...*players.Player) (*Service, *store.Records, *testutil.Clock) {
	t.Helper()
	records := store.NewRecords(store.NewMemoryStore(), nil)
	testutil.Seed(t, records, list...)
	clock := testutil.NewClock(testutil.FixedTime)
	return NewService(app.Deps{Records: records, Now: clock.Now}, opts), records, clock
}

func TestRecordUpsertsAndRefreshesActivity(t *testing.T) {
	driver := testutil.ApprovedDriver("a", "Alonso")
	driver.LastActivity = testutil.FixedTime.Add(-72 * time.Hour)
	svc, records, clock := newService(t, Options{}, driver)
	ctx := context.Background()

	res, err := svc.Record(ctx, RecordRequest{PlayerID: "a", Status: "Maybe"})
	if err != nil || !res.Failure.OK() || !res.Registered || res.Status != attendance.StatusMaybe {
		t.Fatalf("unexpected result %+v %v", res, err)
	}
	clock.Advance(time.Hour)
	if _, err := svc.Record(ctx, RecordRequest{PlayerID: "a", Status: "driver"}); err != nil {
		t.Fatalf("second record: %v", err)
	}
	res, _ = svc.Record(ctx, RecordRequest{PlayerID: "guest", DisplayName: "Guest", Status: "marshal"})
	if res.Registered {
		t.Fatalf("guest should not be registered")
	}

	var rec attendance.Record
	var lastActivity time.Time
	_ = records.View(ctx, func(doc *domain.Document) {
		rec = doc.Attendance["a"]
		p, _ := doc.Player("a")
		lastActivity = p.LastActivity
	})
	if rec.Status != attendance.StatusConfirmedDriver || rec.DisplayName != "Alonso" {
		t.Fatalf("expected upserted record, got %+v", rec)
	}
	if !lastActivity.Equal(clock.Now()) {
		t.Fatalf("expected activity refreshed to %v, got %v", clock.Now(), lastActivity)
	}

	summary, err := svc.Current(ctx)
	if err != nil || len(summary.Entries) != 2 || summary.Counts[attendance.StatusConfirmedDriver] != 1 {
		t.Fatalf("unexpected summary %+v %v", summary, err)
	}
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newService(t, Options{})
	res, err := svc.Record(context.Background(), RecordRequest{PlayerID: "a", Status: "on holiday"})
	if err != nil || res.Failure != domain.InvalidInput {
		t.Fatalf("expected InvalidInput, got %+v %v", res, err)
	}
}

func TestResetClearsAll(t *testing.T) {
	svc, _, _ := newService(t, Options{})
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := svc.Record(ctx, RecordRequest{PlayerID: id, Status: "declined"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	cleared, err := svc.Reset(ctx)
	if err != nil || cleared != 3 {
		t.Fatalf("expected 3 cleared, got %d %v", cleared, err)
	}
	summary, _ := svc.Current(ctx)
	if len(summary.Entries) != 0 {
		t.Fatalf("expected empty attendance, got %+v", summary.Entries)
	}
}

func TestInactivePlayers(t *testing.T) {
	mk := func(id string, missed int) *players.Player {
		p := testutil.ApprovedDriver(id, id)
		p.MissedRaces = missed
		return p
	}
	steward := mk("steward", 9)
	steward.Role = players.RoleSteward
	pending := testutil.Applicant("d", "d")
	pending.MissedRaces = 4
	svc, _, _ := newService(t, Options{InactivityThreshold: 3}, mk("a", 2), mk("b", 3), mk("c", 5), steward, pending)

	tests := []struct {
		threshold int
		want      []string
	}{
		{threshold: 0, want: []string{"b", "c", "d"}},
		{threshold: -1, want: []string{"b", "c", "d"}},
		{threshold: 5, want: []string{"c"}},
		{threshold: 1, want: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("threshold %d", tt.threshold), func(t *testing.T) {
			got, err := svc.InactivePlayers(context.Background(), tt.threshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want %v", got, tt.want)
			}
			for i, id := range tt.want {
				if got[i].PlayerID != id {
					t.Fatalf("got %+v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestLineupSplitsGrid(t *testing.T) {
	svc, _, clock := newService(t, Options{MaxGridSize: 2},
		testutil.ApprovedDriver("a", "ea_a"),
		testutil.ApprovedDriver("b", "ea_b"),
	)
	ctx := context.Background()
	for _, step := range []struct{ id, status string }{
		{"b", "confirmed_driver"},
		{"x", "maybe"},
		{"a", "confirmed-driver"},
		{"guest", "driver"},
	} {
		if _, err := svc.Record(ctx, RecordRequest{PlayerID: step.id, Status: step.status}); err != nil {
			t.Fatalf("record: %v", err)
		}
		clock.Advance(time.Minute)
	}

	lineup, err := svc.Lineup(ctx)
	if err != nil {
		t.Fatalf("lineup: %v", err)
	}
	if len(lineup.Main) != 2 || lineup.Main[0].PlayerID != "b" || lineup.Main[1].PlayerID != "a" {
		t.Fatalf("unexpected main grid %+v", lineup.Main)
	}
	if lineup.Main[0].EAID != "ea_b" {
		t.Fatalf("expected ea id from application, got %+v", lineup.Main[0])
	}
	if len(lineup.Reserves) != 1 || lineup.Reserves[0].PlayerID != "guest" || lineup.Reserves[0].EAID != "" {
		t.Fatalf("unexpected reserves %+v", lineup.Reserves)
	}
}
