package config

import "time"

// LeagueConfig holds the scoring and discipline rules of the league.
type LeagueConfig struct {
	PenaltyLimit        int
	AutoBan             bool
	InactivityThreshold int
	MaxGridSize         int
	TeamCapacity        int
	PointsTable         []int
	FastestLapBonus     int
	FastestLapMaxPos    int
	DecisionRetention   time.Duration
}

// ReminderConfig controls the pre-race reminder poller.
type ReminderConfig struct {
	Enabled   bool
	Interval  time.Duration
	Lookahead time.Duration
}

func loadLeague() LeagueConfig {
	return LeagueConfig{
		PenaltyLimit:        intEnvOrDefault(envPenaltyLimit, defaultPenaltyLimit),
		AutoBan:             boolEnvOrDefault(envPenaltyAutoBan, true),
		InactivityThreshold: intEnvOrDefault(envInactivity, defaultInactivity),
		MaxGridSize:         intEnvOrDefault(envMaxGridSize, defaultMaxGridSize),
		TeamCapacity:        intEnvOrDefault(envTeamCapacity, defaultTeamCapacity),
		PointsTable:         intListEnvOrDefault(envPointsTable, defaultPointsTable),
		FastestLapBonus:     intEnvOrDefault(envFastestLapBonus, defaultFastestLapBonus),
		FastestLapMaxPos:    intEnvOrDefault(envFastestLapMax, defaultFastestLapMax),
		DecisionRetention:   durationEnvOrDefault(envRetention, defaultRetention),
	}
}

func loadReminder() ReminderConfig {
	return ReminderConfig{
		Enabled:   boolEnvOrDefault(envReminderEnabled, true),
		Interval:  durationEnvOrDefault(envReminderInterval, defaultReminderInterval),
		Lookahead: durationEnvOrDefault(envReminderLookahead, defaultReminderLookahead),
	}
}
