package metrics

import (
	"testing"
	"time"
)

func TestRecorderTracksOperations(t *testing.T) {
	rec := NewRecorder()
	rec.RecordOperation("assignTeam", 10*time.Millisecond, "", nil)
	rec.RecordOperation("assignTeam", 15*time.Millisecond, "TeamFull", nil)
	rec.RecordOperation("assignTeam", 5*time.Millisecond, "", errBoom)

	snap := rec.Snapshot("assignTeam")
	if snap.Calls != 3 || snap.Failures != 1 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.LastLatency != 5*time.Millisecond {
		t.Fatalf("expected last latency 5ms, got %s", snap.LastLatency)
	}
	if empty := rec.Snapshot("unknown"); empty != (Snapshot{}) {
		t.Fatalf("expected empty snapshot, got %+v", empty)
	}
}

func TestRecorderTracksNotificationsRemindersAndBans(t *testing.T) {
	rec := NewRecorder()
	rec.RecordNotification("dm", nil)
	rec.RecordNotification("dm", errBoom)
	rec.RecordReminderCycle(time.Millisecond, 3, nil)
	rec.RecordReminderCycle(time.Millisecond, 1, nil)
	rec.RecordPenalty(10, false)
	rec.RecordPenalty(10, true)

	attempts, errs := rec.Notifications("dm")
	if attempts != 2 || errs != 1 {
		t.Fatalf("expected 2 attempts and 1 error, got %d/%d", attempts, errs)
	}
	if got := rec.RemindersSent(); got != 4 {
		t.Fatalf("expected 4 reminders, got %d", got)
	}
	if got := rec.Bans(); got != 1 {
		t.Fatalf("expected 1 ban, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordOperation("op", time.Millisecond, "", nil)
	rec.RecordPenalty(1, true)
	rec.RecordRaceScored(1)
	rec.RecordNotification("admin", nil)
	rec.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	rec.RecordReminderCycle(time.Millisecond, 1, nil)
	if rec.Snapshot("op") != (Snapshot{}) || rec.RemindersSent() != 0 || rec.Bans() != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}
