// Package reminder nudges undecided members before the next race.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/attendance"
	"github.com/preston-bernstein/league-service/internal/domain/calendar"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/metrics"
	"github.com/preston-bernstein/league-service/internal/notify"
	"github.com/preston-bernstein/league-service/internal/timeutil"
)

const (
	defaultInterval  = time.Hour
	defaultLookahead = 24 * time.Hour
)

// Poller checks the calendar on an interval and sends a one-shot reminder to
// members whose attendance is "maybe" once the next race enters the lookahead
// window. The race is marked as reminded before any message goes out, so a
// crash mid-send never causes a second round of reminders.
type Poller struct {
	records   app.Records
	sink      notify.Sink
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	lookahead time.Duration
	now       func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the reminder loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastRound           int
	RemindersSent       int
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(records app.Records, sink notify.Sink, logger *slog.Logger, recorder *metrics.Recorder, cfg config.ReminderConfig) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	lookahead := cfg.Lookahead
	if lookahead <= 0 {
		lookahead = defaultLookahead
	}
	return &Poller{
		records:   records,
		sink:      sink,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		lookahead: lookahead,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "reminder poller started",
			slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Catch a race that entered the window while the service was down.
		p.remindOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "reminder poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "reminder poller stopped")
				return
			case <-p.ticker.C:
				p.remindOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// RunOnce performs a single reminder check and returns how many members were
// messaged.
func (p *Poller) RunOnce(ctx context.Context) (int, error) {
	return p.remindOnce(ctx)
}

func (p *Poller) remindOnce(ctx context.Context) (int, error) {
	start := time.Now()
	p.recordAttempt(start)

	var (
		race       calendar.Entry
		due        bool
		recipients []string
	)
	err := p.records.Update(ctx, func(doc *domain.Document) bool {
		now := p.now().UTC()
		i, ok := calendar.Next(doc.Calendar, now)
		if !ok {
			return false
		}
		entry := doc.Calendar[i]
		if entry.ReminderSent || entry.ScheduledAt.Sub(now) > p.lookahead {
			return false
		}
		doc.Calendar[i].ReminderSent = true
		race, due = doc.Calendar[i], true
		recipients = undecided(doc)
		return true
	})
	if err != nil {
		p.metrics.RecordReminderCycle(time.Since(start), 0, err)
		logging.Error(p.logger, "reminder check failed", err,
			logging.FieldDurationMS, time.Since(start).Milliseconds())
		p.recordFailure(err, start)
		return 0, err
	}

	if due && p.sink != nil {
		text := message(race)
		for _, id := range recipients {
			p.sink.DirectMessage(ctx, id, text)
		}
	}
	sent := 0
	if due {
		sent = len(recipients)
		logging.Info(p.logger, "race reminders sent",
			logging.FieldRound, race.Round,
			logging.FieldRace, race.Name,
			logging.FieldCount, sent,
		)
	}
	p.metrics.RecordReminderCycle(time.Since(start), sent, nil)
	p.recordSuccess(start, race.Round, sent)
	return sent, nil
}

func undecided(doc *domain.Document) []string {
	var ids []string
	for id, rec := range doc.Attendance {
		if rec.Status == attendance.StatusMaybe {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func message(race calendar.Entry) string {
	where := race.Name
	if race.Track != "" {
		where = fmt.Sprintf("%s (%s)", race.Name, race.Track)
	}
	return fmt.Sprintf(
		"Reminder: round %d, %s, starts %s UTC. You are still marked as maybe, please confirm whether you will race.",
		race.Round, where, timeutil.FormatLeagueTime(race.ScheduledAt, time.UTC))
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, round, sent int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	if sent > 0 || round > 0 {
		p.status.LastRound = round
	}
	p.status.RemindersSent += sent
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
