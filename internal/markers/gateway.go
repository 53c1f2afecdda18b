package markers

import (
	"context"
	"sort"
	"sync"
)

// Gateway reads and atomically replaces a member's external permission markers.
// Modify runs read, plan and replace as one step: no other change to the same
// member's set can land between the read and the write.
type Gateway interface {
	Markers(ctx context.Context, playerID string) ([]string, error)
	Replace(ctx context.Context, playerID string, markers []string) error
	Modify(ctx context.Context, playerID string, plan func(current []string) []string) ([]string, error)
}

// MemoryGateway keeps marker sets in process. Sets are lost on restart, so
// the server uses DocumentGateway instead.
type MemoryGateway struct {
	mu      sync.RWMutex
	markers map[string][]string
}

// NewMemoryGateway constructs an empty gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{markers: make(map[string][]string)}
}

// Markers returns a copy of the member's current markers.
func (g *MemoryGateway) Markers(_ context.Context, playerID string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string{}, g.markers[playerID]...), nil
}

// Replace swaps the member's marker set in one step.
func (g *MemoryGateway) Replace(ctx context.Context, playerID string, markers []string) error {
	_, err := g.Modify(ctx, playerID, func([]string) []string { return markers })
	return err
}

// Modify plans and stores the member's next set under the gateway lock.
func (g *MemoryGateway) Modify(_ context.Context, playerID string, plan func(current []string) []string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	set := Normalize(plan(append([]string{}, g.markers[playerID]...)))
	if len(set) == 0 {
		delete(g.markers, playerID)
	} else {
		g.markers[playerID] = set
	}
	return append([]string{}, set...), nil
}

// Normalize dedupes, drops blanks and sorts a marker list.
func Normalize(markers []string) []string {
	seen := make(map[string]struct{}, len(markers))
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
