// Package app holds the dependencies shared by the league services.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/metrics"
)

// Records is the serialized view of the league document.
type Records interface {
	Update(ctx context.Context, fn func(doc *domain.Document) bool) error
	View(ctx context.Context, fn func(doc *domain.Document)) error
}

// Deps bundles what every service needs.
type Deps struct {
	Records Records
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Now     func() time.Time
}

// Clock returns the current time in UTC.
func (d Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// Observe records metrics and logs the outcome of an operation started at start.
func (d Deps) Observe(ctx context.Context, operation string, start time.Time, failure domain.Failure, err error, args ...any) {
	elapsed := time.Since(start)
	d.Metrics.RecordOperation(operation, elapsed, string(failure), err)

	logger := logging.FromContext(ctx, d.Logger)
	args = append(args,
		logging.FieldOperation, operation,
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
	switch {
	case err != nil:
		logging.Error(logger, "operation failed", err, args...)
	case failure != "":
		logging.Info(logger, "operation declined", append(args, logging.FieldReason, string(failure))...)
	default:
		if logger != nil {
			logger.Debug("operation completed", args...)
		}
	}
}
