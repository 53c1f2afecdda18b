package domain

import (
	"sort"
	"time"

	"github.com/preston-bernstein/league-service/internal/domain/attendance"
	"github.com/preston-bernstein/league-service/internal/domain/calendar"
	"github.com/preston-bernstein/league-service/internal/domain/incidents"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/domain/records"
)

// RaceLog is one entry of the scored-race audit trail.
type RaceLog struct {
	Race         string    `json:"race"`
	At           time.Time `json:"at"`
	Participants []string  `json:"participants"`
}

// Document is the whole persisted league state. It is loaded, mutated and
// saved as one unit.
type Document struct {
	Players      map[string]*players.Player    `json:"players"`
	Attendance   map[string]attendance.Record  `json:"attendance"`
	RacesHistory []RaceLog                     `json:"racesHistory"`
	Calendar     []calendar.Entry              `json:"calendar"`
	Records      records.HallOfFame            `json:"records"`
	Incidents    map[string]incidents.Incident `json:"incidents"`
	Markers      map[string][]string           `json:"markers"`
}

// NewDocument returns an empty document with every section present.
func NewDocument() *Document {
	doc := &Document{}
	doc.Normalize()
	return doc
}

// Normalize fills missing sections and repairs player defaults in place.
func (d *Document) Normalize() {
	if d.Players == nil {
		d.Players = map[string]*players.Player{}
	}
	if d.Attendance == nil {
		d.Attendance = map[string]attendance.Record{}
	}
	if d.RacesHistory == nil {
		d.RacesHistory = []RaceLog{}
	}
	if d.Calendar == nil {
		d.Calendar = []calendar.Entry{}
	}
	if d.Incidents == nil {
		d.Incidents = map[string]incidents.Incident{}
	}
	if d.Markers == nil {
		d.Markers = map[string][]string{}
	}
	for id, p := range d.Players {
		if p == nil {
			delete(d.Players, id)
			continue
		}
		if p.ID == "" {
			p.ID = id
		}
		p.Normalize()
	}
}

// Player returns the player with id.
func (d *Document) Player(id string) (*players.Player, bool) {
	p, ok := d.Players[id]
	return p, ok && p != nil
}

// SortedPlayers returns all players ordered by id.
func (d *Document) SortedPlayers() []*players.Player {
	out := make([]*players.Player, 0, len(d.Players))
	for _, p := range d.Players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Drivers returns driver-role players ordered by id.
func (d *Document) Drivers() []*players.Player {
	all := d.SortedPlayers()
	out := all[:0]
	for _, p := range all {
		if p.IsDriver() {
			out = append(out, p)
		}
	}
	return out
}

// HasRace reports whether a race with this name was already scored.
func (d *Document) HasRace(name string) bool {
	for _, r := range d.RacesHistory {
		if r.Race == name {
			return true
		}
	}
	return false
}
