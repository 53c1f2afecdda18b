package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/store"
	"github.com/preston-bernstein/league-service/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(testutil.FixedTime)
	records := store.NewRecords(store.NewMemoryStore(), nil)
	return NewService(app.Deps{Records: records, Now: clock.Now}), clock
}

func schedule(t *testing.T, svc *Service, round int, name string, at time.Time) {
	t.Helper()
	res, err := svc.AddRace(context.Background(), AddRequest{Round: round, Name: name, Track: name, ScheduledAt: at})
	if err != nil || !res.Failure.OK() {
		t.Fatalf("add round %d: %+v %v", round, res, err)
	}
}

func TestNextRaceSkipsPastAndCompleted(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()
	now := testutil.FixedTime
	schedule(t, svc, 1, "Bahrain", now.Add(-48*time.Hour))
	schedule(t, svc, 3, "Melbourne", now.Add(14*24*time.Hour))
	schedule(t, svc, 2, "Jeddah", now.Add(7*24*time.Hour))

	next, err := svc.NextRace(ctx)
	if err != nil || next.Entry.Round != 2 {
		t.Fatalf("expected round 2 next, got %+v %v", next, err)
	}

	if res, _ := svc.MarkCompleted(ctx, 2); !res.Entry.Completed {
		t.Fatalf("expected round 2 completed, got %+v", res)
	}
	next, _ = svc.NextRace(ctx)
	if next.Entry.Round != 3 {
		t.Fatalf("expected round 3 next, got %+v", next)
	}

	clock.Advance(30 * 24 * time.Hour)
	if next, _ = svc.NextRace(ctx); next.Failure != domain.RaceNotFound {
		t.Fatalf("expected no upcoming race, got %+v", next)
	}

	all, _ := svc.All(ctx)
	if len(all) != 3 || all[0].Round != 1 || all[2].Round != 3 {
		t.Fatalf("expected calendar sorted by schedule, got %+v", all)
	}
	completed, _ := svc.Completed(ctx)
	if len(completed) != 1 || completed[0].Round != 2 {
		t.Fatalf("unexpected completed list %+v", completed)
	}
}

func TestAddRaceReschedulesRound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	at := testutil.FixedTime.Add(24 * time.Hour)
	schedule(t, svc, 1, "Imola", at)

	res, err := svc.AddRace(ctx, AddRequest{Round: 1, Name: "Monaco", ScheduledAt: at.Add(time.Hour)})
	if err != nil || !res.Updated {
		t.Fatalf("expected reschedule, got %+v %v", res, err)
	}
	all, _ := svc.All(ctx)
	if len(all) != 1 || all[0].Name != "Monaco" {
		t.Fatalf("expected single rescheduled entry, got %+v", all)
	}
}

func TestCalendarFailures(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, req := range []AddRequest{
		{Round: 0, Name: "Zero", ScheduledAt: testutil.FixedTime},
		{Round: 1, Name: " ", ScheduledAt: testutil.FixedTime},
		{Round: 1, Name: "Unscheduled"},
	} {
		if res, _ := svc.AddRace(ctx, req); res.Failure != domain.InvalidInput {
			t.Fatalf("expected InvalidInput for %+v, got %q", req, res.Failure)
		}
	}
	if res, _ := svc.MarkCompleted(ctx, 9); res.Failure != domain.RaceNotFound {
		t.Fatalf("expected RaceNotFound, got %q", res.Failure)
	}
}
