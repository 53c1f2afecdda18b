package metrics

import (
	"sync"
	"time"
)

type operationStats struct {
	calls       int
	failures    int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about league operations
// and mirrors them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu            sync.Mutex
	stats         map[string]*operationStats
	notifications map[string]int
	notifyErrors  map[string]int
	remindersSent int
	bans          int
	otel          *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:         make(map[string]*operationStats),
		notifications: make(map[string]int),
		notifyErrors:  make(map[string]int),
		otel:          otel,
	}
}

// RecordOperation counts a service operation. A non-empty failure marks a domain
// outcome such as PlayerNotFound; err marks a storage fault.
func (r *Recorder) RecordOperation(operation string, duration time.Duration, failure string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(operation)
	stats.calls++
	stats.lastLatency = duration
	if failure != "" {
		stats.failures++
	}
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOperation(operation, duration, failure, err)
	}
}

// RecordPenalty tracks penalty points issued and threshold crossings that led to a ban.
func (r *Recorder) RecordPenalty(points int, banned bool) {
	if r == nil {
		return
	}
	if banned {
		r.mu.Lock()
		r.bans++
		r.mu.Unlock()
	}
	if r.otel != nil {
		r.otel.recordPenalty(points, banned)
	}
}

// RecordRaceScored tracks scored races and how many finishers earned a result.
func (r *Recorder) RecordRaceScored(finishers int) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordRace(finishers)
}

// RecordNotification tracks outbound notifications per channel.
func (r *Recorder) RecordNotification(channel string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.notifications[channel]++
	if err != nil {
		r.notifyErrors[channel]++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordNotification(channel, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordReminderCycle tracks reminder poller cycles, reminders sent and errors.
func (r *Recorder) RecordReminderCycle(duration time.Duration, sent int, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.remindersSent += sent
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordReminder(duration, sent, err)
	}
}

// Snapshot is a copy of the stats recorded for one operation.
type Snapshot struct {
	Calls       int
	Failures    int
	Errors      int
	LastLatency time.Duration
}

// Snapshot returns a copy of the current stats for the operation.
func (r *Recorder) Snapshot(operation string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[operation]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Failures:    stats.failures,
		Errors:      stats.errors,
		LastLatency: stats.lastLatency,
	}
}

// Notifications returns the attempts and errors recorded for a channel.
func (r *Recorder) Notifications(channel string) (attempts, errors int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifications[channel], r.notifyErrors[channel]
}

// RemindersSent returns the total reminders delivered by the poller.
func (r *Recorder) RemindersSent() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remindersSent
}

// Bans returns how many penalty threshold crossings triggered a ban.
func (r *Recorder) Bans() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bans
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(operation string) *operationStats {
	stats, ok := r.stats[operation]
	if !ok {
		stats = &operationStats{}
		r.stats[operation] = stats
	}
	return stats
}
