package players

import (
	"strings"
	"time"
)

// Role is the league position a player applied for.
type Role string

const (
	RoleDriver      Role = "driver"
	RoleSteward     Role = "steward"
	RoleCommentator Role = "commentator"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleDriver, RoleSteward, RoleCommentator}

// ParseRole normalizes a role name, case-insensitively.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDriver, RoleSteward, RoleCommentator:
		return true
	}
	return false
}

// Standing is the application lifecycle state of a player.
type Standing string

const (
	StandingApplicant    Standing = "applicant"
	StandingUnderReview  Standing = "under_review"
	StandingUnderTesting Standing = "under_testing"
	StandingApproved     Standing = "approved"
	StandingRejected     Standing = "rejected"
)

// Final reports whether no further lifecycle transition is possible.
func (s Standing) Final() bool {
	return s == StandingApproved || s == StandingRejected
}

// RaceResult is one scored finish.
type RaceResult struct {
	Race       string    `json:"race"`
	Position   int       `json:"position"`
	Points     int       `json:"points"`
	FastestLap bool      `json:"fastestLap"`
	At         time.Time `json:"at"`
}

// QualifyingResult is one recorded qualifying session.
type QualifyingResult struct {
	Race     string    `json:"race"`
	Position int       `json:"position"`
	At       time.Time `json:"at"`
}

// Player is a league participant. Every role shares one schema; fields that do
// not apply to a role keep their zero value.
type Player struct {
	ID                string             `json:"id"`
	DisplayName       string             `json:"displayName"`
	Role              Role               `json:"role"`
	Standing          Standing           `json:"standing"`
	Answers           map[string]string  `json:"answers"`
	Team              string             `json:"team,omitempty"`
	TotalPoints       int                `json:"totalPoints"`
	CarriedPoints     int                `json:"carriedPoints,omitempty"`
	RaceHistory       []RaceResult       `json:"raceHistory"`
	QualifyingHistory []QualifyingResult `json:"qualifyingHistory"`
	Poles             int                `json:"poles"`
	Penalties         PenaltyLedger      `json:"penalties"`
	MissedRaces       int                `json:"missedRaces"`
	LastActivity      time.Time          `json:"lastActivity"`
	RegisteredAt      time.Time          `json:"registeredAt"`
}

// New builds an applicant with empty history.
func New(id, displayName string, role Role, answers map[string]string, now time.Time) *Player {
	p := &Player{
		ID:           id,
		DisplayName:  displayName,
		Role:         role,
		Standing:     StandingApplicant,
		Answers:      copyAnswers(answers),
		LastActivity: now,
		RegisteredAt: now,
	}
	p.Normalize()
	return p
}

// Normalize fills missing collections and recomputes derived totals.
func (p *Player) Normalize() {
	if p.Answers == nil {
		p.Answers = map[string]string{}
	}
	if p.RaceHistory == nil {
		p.RaceHistory = []RaceResult{}
	}
	if p.QualifyingHistory == nil {
		p.QualifyingHistory = []QualifyingResult{}
	}
	if p.Standing == "" {
		p.Standing = StandingApproved
	}
	if p.Role == "" {
		p.Role = RoleDriver
	}
	p.Penalties.normalize()

	// A stored total above the history sum came from a legacy or imported
	// record; keep the difference as a carried baseline.
	sum := 0
	for _, r := range p.RaceHistory {
		sum += r.Points
	}
	if p.TotalPoints > sum+p.CarriedPoints {
		p.CarriedPoints = p.TotalPoints - sum
	}
	p.recomputePoints()
}

// IsDriver reports whether the player holds the driver role, whatever the
// application standing.
func (p *Player) IsDriver() bool {
	return p != nil && p.Role == RoleDriver
}

// RecordRace appends a result and keeps TotalPoints equal to the history sum.
func (p *Player) RecordRace(result RaceResult) {
	p.RaceHistory = append(p.RaceHistory, result)
	p.recomputePoints()
	p.LastActivity = result.At
}

// RecordQualifying appends a session and reports whether it was a pole.
func (p *Player) RecordQualifying(result QualifyingResult) bool {
	p.QualifyingHistory = append(p.QualifyingHistory, result)
	pole := result.Position == 1
	if pole {
		p.Poles++
	}
	p.LastActivity = result.At
	return pole
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	out := *p
	out.Answers = copyAnswers(p.Answers)
	out.RaceHistory = append([]RaceResult{}, p.RaceHistory...)
	out.QualifyingHistory = append([]QualifyingResult{}, p.QualifyingHistory...)
	out.Penalties.Entries = append([]PenaltyEntry{}, p.Penalties.Entries...)
	return &out
}

func (p *Player) recomputePoints() {
	total := p.CarriedPoints
	for _, r := range p.RaceHistory {
		total += r.Points
	}
	p.TotalPoints = total
}

func copyAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
