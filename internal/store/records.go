package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/logging"
)

// Records serializes every load-mutate-save cycle over a Backend so that no
// two mutations interleave.
type Records struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
}

// NewRecords wraps backend with the global serialization lock.
func NewRecords(backend Backend, logger *slog.Logger) *Records {
	return &Records{backend: backend, logger: logger}
}

// Load returns the persisted document, or an empty one when it is absent or
// unparsable.
func (r *Records) Load(ctx context.Context) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Save replaces the persisted document.
func (r *Records) Save(ctx context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Save(ctx, doc)
}

// Update runs fn against the current document and saves the result when fn
// returns true. Nothing is written when fn declines or the save fails.
func (r *Records) Update(ctx context.Context, fn func(doc *domain.Document) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}
	if !fn(doc) {
		return nil
	}
	if err := r.backend.Save(ctx, doc); err != nil {
		logging.Error(r.logger, "store save failed", err)
		return err
	}
	return nil
}

// View runs fn against a consistent snapshot of the document.
func (r *Records) View(ctx context.Context, fn func(doc *domain.Document)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}
	fn(doc)
	return nil
}

// Close releases the backend.
func (r *Records) Close() error {
	return r.backend.Close()
}

func (r *Records) load(ctx context.Context) (*domain.Document, error) {
	doc, err := r.backend.Load(ctx)
	if errors.Is(err, ErrCorrupt) {
		logging.Warn(r.logger, "league document unreadable, starting empty", "error", err)
		return domain.NewDocument(), nil
	}
	if err != nil {
		logging.Error(r.logger, "store load failed", err)
		return nil, err
	}
	return doc, nil
}
