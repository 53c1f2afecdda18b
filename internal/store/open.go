package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/league-service/internal/config"
)

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.StoreFile, "":
		return NewFileStore(cfg.Path), nil
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreBadger:
		return OpenBadger(cfg.Path, logger)
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL, cfg.MaxConns)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
