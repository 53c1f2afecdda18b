// Command leaguectl runs league admin tasks directly against the record store.
//
// Usage:
//
//	leaguectl export --out players.csv
//	leaguectl import players.csv
//	leaguectl standings
//	leaguectl calendar add --round 3 --name "Bahrain GP" --track Sakhir --at "16.03.2026 20:00"
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/app/league"
	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/store"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(openFromEnv, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// opener returns the league services and a func that releases the store.
type opener func(ctx context.Context) (*league.Services, func() error, error)

func openFromEnv(ctx context.Context) (*league.Services, func() error, error) {
	cfg := config.Load()
	logger := logging.NewWriterLogger(os.Stderr, logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "leaguectl",
	})

	backend, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	records := store.NewRecords(backend, logger)
	services := league.NewServices(app.Deps{Records: records, Logger: logger}, league.Options{
		League:  cfg.League,
		Markers: cfg.Markers,
	})
	return services, records.Close, nil
}

func withServices(ctx context.Context, open opener, fn func(*league.Services) error) error {
	services, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	runErr := fn(services)
	if closeErr := closeFn(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("close store: %w", closeErr)
	}
	return runErr
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
