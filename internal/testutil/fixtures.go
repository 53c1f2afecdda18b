package testutil

import (
	"time"

	"github.com/preston-bernstein/league-service/internal/domain/players"
)

// DriverAnswers returns a complete driver application.
func DriverAnswers(eaID string) map[string]string {
	return map[string]string{
		"ea_id":          eaID,
		"silverstone_tt": "1:26.900",
		"baku_tt":        "1:41.300",
		"experience":     "two seasons",
		"skill_review":   "consistent",
	}
}

// Applicant returns a driver applicant fixture.
func Applicant(id, name string) *players.Player {
	return players.New(id, name, players.RoleDriver, DriverAnswers(name), FixedTime)
}

// ApprovedDriver returns an approved driver fixture.
func ApprovedDriver(id, name string) *players.Player {
	p := Applicant(id, name)
	p.Standing = players.StandingApproved
	return p
}

// DriverWithResults returns an approved driver with one race per position.
func DriverWithResults(id string, positions ...int) *players.Player {
	p := ApprovedDriver(id, "Driver "+id)
	for i, pos := range positions {
		p.RecordRace(players.RaceResult{
			Race:     "Round",
			Position: pos,
			Points:   pointsFor(pos),
			At:       FixedTime.Add(time.Duration(i) * time.Hour),
		})
	}
	return p
}

func pointsFor(pos int) int {
	table := []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
	if pos >= 1 && pos <= len(table) {
		return table[pos-1]
	}
	return 0
}
