package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/preston-bernstein/league-service/internal/domain"
)

const badgerDocumentKey = "league/document"

// BadgerStore keeps the document msgpack-encoded under a single key of an
// embedded Badger database.
type BadgerStore struct {
	db  *badger.DB
	key []byte
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR).WithLogger(badgerLogger{logger})
	return openBadger(opts)
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, key: []byte(badgerDocumentKey)}, nil
}

// Load decodes the stored document. A missing key yields an empty document.
func (s *BadgerStore) Load(context.Context) (*domain.Document, error) {
	doc := &domain.Document{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			dec := msgpack.NewDecoder(bytes.NewReader(val))
			dec.SetCustomStructTag("json")
			if err := dec.Decode(doc); err != nil {
				return fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.NewDocument(), nil
	}
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("read league document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// Save encodes and stores the document in one transaction.
func (s *BadgerStore) Save(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		doc = domain.NewDocument()
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode league document: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, buf.Bytes())
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes Badger's internal logs through slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log(slog.LevelError, format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log(slog.LevelWarn, format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log(slog.LevelInfo, format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log(slog.LevelDebug, format, args...)
}

func (l badgerLogger) log(level slog.Level, format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, args...), "component", "badger")
}
