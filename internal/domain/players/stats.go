package players

// Stats summarizes a driver's race history.
type Stats struct {
	PlayerID        string  `json:"playerId"`
	DisplayName     string  `json:"displayName"`
	Team            string  `json:"team,omitempty"`
	TotalPoints     int     `json:"totalPoints"`
	Races           int     `json:"races"`
	Wins            int     `json:"wins"`
	Podiums         int     `json:"podiums"`
	Poles           int     `json:"poles"`
	FastestLaps     int     `json:"fastestLaps"`
	AveragePosition float64 `json:"averagePosition"`
	BestFinish      int     `json:"bestFinish"`
	HasFinish       bool    `json:"hasFinish"`
	PenaltyPoints   int     `json:"penaltyPoints"`
}

// ComputeStats derives Stats from the player's history. With no races the
// average is 0 and HasFinish is false.
func ComputeStats(p *Player) Stats {
	s := Stats{
		PlayerID:      p.ID,
		DisplayName:   p.DisplayName,
		Team:          p.Team,
		TotalPoints:   p.TotalPoints,
		Races:         len(p.RaceHistory),
		Poles:         p.Poles,
		PenaltyPoints: p.Penalties.TotalPoints,
	}
	if len(p.RaceHistory) == 0 {
		return s
	}

	sum := 0
	for _, r := range p.RaceHistory {
		sum += r.Position
		switch {
		case r.Position == 1:
			s.Wins++
			s.Podiums++
		case r.Position <= 3:
			s.Podiums++
		}
		if r.FastestLap {
			s.FastestLaps++
		}
		if !s.HasFinish || r.Position < s.BestFinish {
			s.BestFinish = r.Position
			s.HasFinish = true
		}
	}
	s.AveragePosition = float64(sum) / float64(len(p.RaceHistory))
	return s
}
