package teams

import "strings"

// Team is a constructor with a fixed number of driver seats.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Registry holds the league's teams in their configured order.
type Registry struct {
	order []string
	byID  map[string]Team
}

var defaultTeams = []Team{
	{ID: "ferrari", Name: "Ferrari"},
	{ID: "mercedes", Name: "Mercedes"},
	{ID: "redbull", Name: "Red Bull Racing"},
	{ID: "mclaren", Name: "McLaren"},
	{ID: "alpine", Name: "Alpine"},
	{ID: "aston", Name: "Aston Martin"},
	{ID: "williams", Name: "Williams"},
	{ID: "haas", Name: "Haas"},
	{ID: "rb", Name: "RB"},
	{ID: "sauber", Name: "Sauber"},
}

// DefaultRegistry returns the ten-team grid with the given seat capacity.
func DefaultRegistry(capacity int) *Registry {
	list := make([]Team, len(defaultTeams))
	for i, t := range defaultTeams {
		t.Capacity = capacity
		list[i] = t
	}
	return NewRegistry(list)
}

// NewRegistry builds a registry; later duplicates replace earlier ones.
func NewRegistry(list []Team) *Registry {
	r := &Registry{byID: make(map[string]Team, len(list))}
	for _, t := range list {
		id := strings.ToLower(strings.TrimSpace(t.ID))
		if id == "" {
			continue
		}
		t.ID = id
		if _, seen := r.byID[id]; !seen {
			r.order = append(r.order, id)
		}
		r.byID[id] = t
	}
	return r
}

// Get looks up a team by id, case-insensitively.
func (r *Registry) Get(id string) (Team, bool) {
	t, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	return t, ok
}

// All returns teams in registry order.
func (r *Registry) All() []Team {
	out := make([]Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
