package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/league-service/internal/domain"
)

// FileStore keeps the document as a single indented JSON file.
type FileStore struct {
	path string
}

// NewFileStore constructs a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path exposes the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document.
func (s *FileStore) Load(context.Context) (*domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("read league document: %w", err)
	}
	return decodeDocument(data)
}

// Save writes to a temporary file and renames it over the target so readers
// never observe a partial document.
func (s *FileStore) Save(_ context.Context, doc *domain.Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	data, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode league document: %w", err)
	}
	if existing, err := os.ReadFile(s.path); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write league document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace league document: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}
