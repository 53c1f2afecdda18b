package players

import "time"

// PenaltyEntry is one disciplinary record. Entries are append-only.
type PenaltyEntry struct {
	At          time.Time `json:"at"`
	Points      int       `json:"points"`
	Reason      string    `json:"reason"`
	IncidentRef string    `json:"incidentRef,omitempty"`
}

// PenaltyLedger keeps the running total equal to the sum of its entries plus
// any carried baseline from an import.
type PenaltyLedger struct {
	TotalPoints int            `json:"totalPoints"`
	Carried     int            `json:"carried,omitempty"`
	Entries     []PenaltyEntry `json:"history"`
}

// Append records an entry and returns the new running total.
func (l *PenaltyLedger) Append(entry PenaltyEntry) int {
	l.Entries = append(l.Entries, entry)
	l.TotalPoints += entry.Points
	return l.TotalPoints
}

// Reset clears the ledger entirely.
func (l *PenaltyLedger) Reset() {
	l.TotalPoints = 0
	l.Carried = 0
	l.Entries = []PenaltyEntry{}
}

// Reached reports whether the total has reached limit.
func (l PenaltyLedger) Reached(limit int) bool {
	return l.TotalPoints >= limit
}

func (l *PenaltyLedger) normalize() {
	if l.Entries == nil {
		l.Entries = []PenaltyEntry{}
	}
	sum := 0
	for _, e := range l.Entries {
		sum += e.Points
	}
	if l.TotalPoints > sum+l.Carried {
		l.Carried = l.TotalPoints - sum
	}
	l.TotalPoints = l.Carried + sum
}
