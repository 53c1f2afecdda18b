package calendar

import (
	"testing"
	"time"
)

func TestNextSkipsCompletedAndPast(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Round: 1, ScheduledAt: now.Add(-48 * time.Hour)},
		{Round: 3, ScheduledAt: now.Add(72 * time.Hour)},
		{Round: 2, ScheduledAt: now.Add(24 * time.Hour), Completed: true},
		{Round: 4, ScheduledAt: now.Add(48 * time.Hour)},
	}

	idx, ok := Next(entries, now)
	if !ok || entries[idx].Round != 4 {
		t.Fatalf("expected round 4 next, got idx=%d ok=%v", idx, ok)
	}

	if _, ok := Next(entries[:1], now); ok {
		t.Fatalf("expected no upcoming race")
	}
}

func TestSortAndFind(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Round: 2, ScheduledAt: base.Add(time.Hour)},
		{Round: 1, ScheduledAt: base},
		{Round: 3, ScheduledAt: base},
	}
	Sort(entries)
	if entries[0].Round != 1 || entries[1].Round != 3 || entries[2].Round != 2 {
		t.Fatalf("unexpected order %+v", entries)
	}
	if idx, ok := Find(entries, 2); !ok || idx != 2 {
		t.Fatalf("expected round 2 at index 2, got %d", idx)
	}
	if _, ok := Find(entries, 9); ok {
		t.Fatalf("expected missing round")
	}
}
