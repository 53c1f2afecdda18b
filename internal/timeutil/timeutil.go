package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// LeagueLayout is the day-first format admins use for race times (DD.MM.YYYY HH:MM).
const LeagueLayout = "02.01.2006 15:04"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseLeagueTime parses a race time in loc and returns it in UTC. RFC 3339
// timestamps are accepted as well; they carry their own offset.
func ParseLeagueTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(LeagueLayout, value, loc); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid race time %q: want DD.MM.YYYY HH:MM", value)
}

// FormatLeagueTime formats t in loc using LeagueLayout.
func FormatLeagueTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LeagueLayout)
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
