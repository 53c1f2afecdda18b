package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/league-service/internal/domain"
)

// MemoryStore keeps the encoded document in memory. Each Load decodes a fresh
// copy, so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load decodes the stored document.
func (s *MemoryStore) Load(context.Context) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return decodeDocument(s.data)
}

// Save replaces the stored document.
func (s *MemoryStore) Save(_ context.Context, doc *domain.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
