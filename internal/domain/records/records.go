package records

import (
	"sort"
	"time"

	"github.com/preston-bernstein/league-service/internal/domain/players"
)

// Record names the holder of one all-time mark.
type Record struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Value       int    `json:"value"`
}

// HallOfFame is the league's all-time marks across drivers with history.
type HallOfFame struct {
	MostWins        *Record   `json:"mostWins,omitempty"`
	MostPoles       *Record   `json:"mostPoles,omitempty"`
	MostPodiums     *Record   `json:"mostPodiums,omitempty"`
	MostFastestLaps *Record   `json:"mostFastestLaps,omitempty"`
	HighestPoints   *Record   `json:"highestPoints,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Compute derives the hall of fame. Ties go to the lowest player id; a mark
// with value 0 has no holder.
func Compute(list []*players.Player, now time.Time) HallOfFame {
	stats := make([]players.Stats, 0, len(list))
	for _, p := range list {
		if p == nil || p.Role != players.RoleDriver || len(p.RaceHistory) == 0 {
			continue
		}
		stats = append(stats, players.ComputeStats(p))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].PlayerID < stats[j].PlayerID })

	return HallOfFame{
		MostWins:        best(stats, func(s players.Stats) int { return s.Wins }),
		MostPoles:       best(stats, func(s players.Stats) int { return s.Poles }),
		MostPodiums:     best(stats, func(s players.Stats) int { return s.Podiums }),
		MostFastestLaps: best(stats, func(s players.Stats) int { return s.FastestLaps }),
		HighestPoints:   best(stats, func(s players.Stats) int { return s.TotalPoints }),
		UpdatedAt:       now,
	}
}

func best(stats []players.Stats, value func(players.Stats) int) *Record {
	var top *Record
	for _, s := range stats {
		v := value(s)
		if v <= 0 {
			continue
		}
		if top == nil || v > top.Value {
			top = &Record{PlayerID: s.PlayerID, DisplayName: s.DisplayName, Value: v}
		}
	}
	return top
}
