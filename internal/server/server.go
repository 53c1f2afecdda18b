package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/app/league"
	"github.com/preston-bernstein/league-service/internal/config"
	httpserver "github.com/preston-bernstein/league-service/internal/http"
	"github.com/preston-bernstein/league-service/internal/http/handlers"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/markers"
	"github.com/preston-bernstein/league-service/internal/metrics"
	"github.com/preston-bernstein/league-service/internal/notify"
	"github.com/preston-bernstein/league-service/internal/reminder"
	"github.com/preston-bernstein/league-service/internal/store"
)

var (
	metricsSetup = metrics.Setup
	openStore    = store.Open
)

// Poller defines the minimal reminder poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() reminder.Status
}

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	records       *store.Records
	services      *league.Services
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
}

// New opens the configured record store and wires every component around it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	backend, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	logging.Info(logger, "record store opened", logging.FieldBackend, cfg.Store.Backend)
	return newServerWithBackend(cfg, logger, backend, nil), nil
}

func newServerWithBackend(cfg config.Config, logger *slog.Logger, backend store.Backend, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	records := store.NewRecords(backend, logger)
	sink := buildSink(cfg, logger, recorder)
	services := league.NewServices(app.Deps{
		Records: records,
		Logger:  logger,
		Metrics: recorder,
	}, league.Options{
		League:  cfg.League,
		Markers: cfg.Markers,
		Gateway: markers.NewDocumentGateway(records),
		Sink:    sink,
	})

	var plr Poller
	if cfg.Reminder.Enabled {
		plr = reminder.New(records, sink, logger, recorder, cfg.Reminder)
	}
	httpSrv := buildHTTPServer(cfg, services, logger, recorder, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		records:       records,
		services:      services,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func buildSink(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) notify.Sink {
	var notifier notify.Notifier
	if cfg.Webhooks.Enabled() {
		notifier = notify.NewWebhookNotifier(cfg.Webhooks, nil)
	} else {
		logging.Info(logger, "no webhooks configured; notifications are logged only")
		notifier = notify.NewLogNotifier(logger)
	}
	return notify.NewDispatcher(notifier, logger, recorder)
}

func buildHTTPServer(cfg config.Config, services *league.Services, logger *slog.Logger, recorder *metrics.Recorder, plr Poller) httpServer {
	var statusFn func() reminder.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(services, logger, statusFn)
	router := httpserver.NewRouter(handler, httpserver.RouterConfig{
		Logger:     logger,
		Metrics:    recorder,
		HTTP:       cfg.HTTP,
		AdminToken: cfg.AdminToken,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.poller != nil {
		s.poller.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.poller != nil {
		if err := s.poller.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop reminder poller", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	// Close after the listener drains so in-flight mutations can still save.
	if s.records != nil {
		if err := s.records.Close(); err != nil {
			logging.Error(s.logger, "record store close failed", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
