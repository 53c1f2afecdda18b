package scoring

import "github.com/preston-bernstein/league-service/internal/config"

// Rules is the championship points system.
type Rules struct {
	PointsTable      []int
	FastestLapBonus  int
	FastestLapMaxPos int
}

// RulesFromConfig copies the scoring rules out of the league configuration.
func RulesFromConfig(cfg config.LeagueConfig) Rules {
	return Rules{
		PointsTable:      append([]int(nil), cfg.PointsTable...),
		FastestLapBonus:  cfg.FastestLapBonus,
		FastestLapMaxPos: cfg.FastestLapMaxPos,
	}
}

// Points returns the award for a 1-based finishing position and whether the
// fastest-lap bonus was included. Positions past the table score 0; the bonus
// only counts inside the FastestLapMaxPos band.
func (r Rules) Points(position int, fastestLap bool) (int, bool) {
	points := 0
	if position >= 1 && position <= len(r.PointsTable) {
		points = r.PointsTable[position-1]
	}
	if fastestLap && position >= 1 && position <= r.FastestLapMaxPos {
		return points + r.FastestLapBonus, true
	}
	return points, false
}
