package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/league-service/internal/domain"
)

const (
	defaultDocumentID = "league"

	createDocumentsTable = `CREATE TABLE IF NOT EXISTS league_documents (
	id         TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectDocument = `SELECT body FROM league_documents WHERE id = $1`
	upsertDocument = `INSERT INTO league_documents (id, body, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
)

// PostgresStore keeps the document as one jsonb row.
type PostgresStore struct {
	pool *pgxpool.Pool
	id   string
}

// OpenPostgres connects, verifies the connection and ensures the table exists.
func OpenPostgres(ctx context.Context, databaseURL string, maxConns int) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("database url required for postgres store")
	}
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create league_documents: %w", err)
	}
	return &PostgresStore{pool: pool, id: defaultDocumentID}, nil
}

// Load reads the document row. A missing row yields an empty document.
func (s *PostgresStore) Load(ctx context.Context) (*domain.Document, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, selectDocument, s.id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read league document: %w", err)
	}
	return decodeDocument(body)
}

// Save upserts the document row.
func (s *PostgresStore) Save(ctx context.Context, doc *domain.Document) error {
	body, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode league document: %w", err)
	}
	if _, err := s.pool.Exec(ctx, upsertDocument, s.id, body); err != nil {
		return fmt.Errorf("write league document: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
