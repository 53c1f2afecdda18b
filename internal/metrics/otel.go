package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "league-service"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx               context.Context
	meter             metric.Meter
	requests          metric.Int64Counter
	requestLatencyMs  metric.Float64Histogram
	operations        metric.Int64Counter
	operationLatency  metric.Float64Histogram
	penaltyPoints     metric.Int64Counter
	bans              metric.Int64Counter
	racesScored       metric.Int64Counter
	finishersScored   metric.Int64Counter
	notifications     metric.Int64Counter
	notifyErrors      metric.Int64Counter
	reminderCycles    metric.Int64Counter
	reminderErrors    metric.Int64Counter
	remindersSent     metric.Int64Counter
	reminderLatencyMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("league-service")
	inst := &otelInstruments{ctx: context.Background(), meter: meter}

	counters := []struct {
		name string
		dst  *metric.Int64Counter
	}{
		{"http_requests_total", &inst.requests},
		{"league_operations_total", &inst.operations},
		{"league_penalty_points_total", &inst.penaltyPoints},
		{"league_bans_total", &inst.bans},
		{"league_races_scored_total", &inst.racesScored},
		{"league_finishers_scored_total", &inst.finishersScored},
		{"league_notifications_total", &inst.notifications},
		{"league_notification_errors_total", &inst.notifyErrors},
		{"reminder_cycles_total", &inst.reminderCycles},
		{"reminder_errors_total", &inst.reminderErrors},
		{"reminders_sent_total", &inst.remindersSent},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	histograms := []struct {
		name string
		dst  *metric.Float64Histogram
	}{
		{"http_request_duration_ms", &inst.requestLatencyMs},
		{"league_operation_duration_ms", &inst.operationLatency},
		{"reminder_cycle_duration_ms", &inst.reminderLatencyMs},
	}
	for _, h := range histograms {
		hist, err := meter.Float64Histogram(h.name)
		if err != nil {
			return nil, err
		}
		*h.dst = hist
	}

	return inst, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordOperation(operation string, duration time.Duration, failure string, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrOperation, operation),
		attribute.String(AttrOutcome, outcomeFor(failure, err)),
	}
	o.recordCounter(o.operations, 1, attrs...)
	o.recordHistogram(o.operationLatency, float64(duration.Milliseconds()), attrs[:1]...)
}

func (o *otelInstruments) recordPenalty(points int, banned bool) {
	if o == nil {
		return
	}
	o.recordCounter(o.penaltyPoints, int64(points))
	if banned {
		o.recordCounter(o.bans, 1)
	}
}

func (o *otelInstruments) recordRace(finishers int) {
	if o == nil {
		return
	}
	o.recordCounter(o.racesScored, 1)
	o.recordCounter(o.finishersScored, int64(finishers))
}

func (o *otelInstruments) recordNotification(channel string, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrChannel, channel)}
	o.recordCounter(o.notifications, 1, attrs...)
	if err != nil {
		o.recordCounter(o.notifyErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordReminder(duration time.Duration, sent int, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.reminderCycles, 1)
	o.recordHistogram(o.reminderLatencyMs, float64(duration.Milliseconds()))
	if sent > 0 {
		o.recordCounter(o.remindersSent, int64(sent))
	}
	if err != nil {
		o.recordCounter(o.reminderErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil || counter == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil || hist == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}

func outcomeFor(failure string, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case failure != "":
		return OutcomeFailure
	default:
		return OutcomeOK
	}
}
