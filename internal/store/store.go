package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/preston-bernstein/league-service/internal/domain"
)

// ErrCorrupt marks a persisted document that exists but cannot be decoded.
var ErrCorrupt = errors.New("league document is corrupt")

// Backend persists the league document as a single unit. Load returns a fresh
// document when nothing has been saved yet.
type Backend interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
	Close() error
}

func encodeDocument(doc *domain.Document) ([]byte, error) {
	if doc == nil {
		doc = domain.NewDocument()
	}
	return json.MarshalIndent(doc, "", "  ")
}

func decodeDocument(data []byte) (*domain.Document, error) {
	doc := &domain.Document{}
	if len(data) == 0 {
		doc.Normalize()
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	doc.Normalize()
	return doc, nil
}
