package markers

import (
	"context"

	"github.com/preston-bernstein/league-service/internal/domain"
)

type documentRecords interface {
	Update(ctx context.Context, fn func(doc *domain.Document) bool) error
	View(ctx context.Context, fn func(doc *domain.Document)) error
}

// DocumentGateway keeps the desired marker sets in the league document. The
// chat front end reads them back and mirrors them onto the platform. Changes
// share the record store lock, so a set never races a concurrent plan.
type DocumentGateway struct {
	records documentRecords
}

// NewDocumentGateway stores marker sets through records.
func NewDocumentGateway(records documentRecords) *DocumentGateway {
	return &DocumentGateway{records: records}
}

// Markers returns a copy of the member's stored set.
func (g *DocumentGateway) Markers(ctx context.Context, playerID string) ([]string, error) {
	out := []string{}
	err := g.records.View(ctx, func(doc *domain.Document) {
		out = append(out, doc.Markers[playerID]...)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Replace overwrites the member's set.
func (g *DocumentGateway) Replace(ctx context.Context, playerID string, markers []string) error {
	_, err := g.Modify(ctx, playerID, func([]string) []string { return markers })
	return err
}

// Modify plans and saves the member's next set in one store unit.
func (g *DocumentGateway) Modify(ctx context.Context, playerID string, plan func(current []string) []string) ([]string, error) {
	var set []string
	err := g.records.Update(ctx, func(doc *domain.Document) bool {
		if doc.Markers == nil {
			doc.Markers = map[string][]string{}
		}
		set = Normalize(plan(append([]string{}, doc.Markers[playerID]...)))
		if len(set) == 0 {
			if _, ok := doc.Markers[playerID]; !ok {
				return false
			}
			delete(doc.Markers, playerID)
			return true
		}
		doc.Markers[playerID] = set
		return true
	})
	if err != nil {
		return nil, err
	}
	return append([]string{}, set...), nil
}
