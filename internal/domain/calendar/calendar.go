package calendar

import (
	"sort"
	"time"
)

// Entry is one scheduled round of the season.
type Entry struct {
	Round        int       `json:"round"`
	Name         string    `json:"name"`
	Track        string    `json:"track"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Completed    bool      `json:"completed"`
	ReminderSent bool      `json:"reminderSent"`
}

// Sort orders entries by scheduled time, then round.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ScheduledAt.Equal(entries[j].ScheduledAt) {
			return entries[i].ScheduledAt.Before(entries[j].ScheduledAt)
		}
		return entries[i].Round < entries[j].Round
	})
}

// Next returns the index of the earliest uncompleted entry scheduled after now.
func Next(entries []Entry, now time.Time) (int, bool) {
	best := -1
	for i, e := range entries {
		if e.Completed || !e.ScheduledAt.After(now) {
			continue
		}
		if best < 0 || e.ScheduledAt.Before(entries[best].ScheduledAt) {
			best = i
		}
	}
	return best, best >= 0
}

// Find returns the index of the entry for round.
func Find(entries []Entry, round int) (int, bool) {
	for i, e := range entries {
		if e.Round == round {
			return i, true
		}
	}
	return -1, false
}
