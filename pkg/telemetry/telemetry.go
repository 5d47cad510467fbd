// Package telemetry wires up the OpenTelemetry meter provider and the
// Prometheus exporter for long-lived speed test deployments.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dns-speedtest/pkg/config"
	"dns-speedtest/pkg/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Telemetry holds telemetry providers and exporters
type Telemetry struct {
	cfg                *config.TelemetryConfig
	meterProvider      metric.MeterProvider
	tracerProvider     trace.TracerProvider
	prometheusExporter *prometheus.Exporter
	prometheusServer   *http.Server
	logger             *logging.Logger
}

// Metrics holds the measurement metrics
type Metrics struct {
	ProbesTotal     metric.Int64Counter
	ProbeFailures   metric.Int64Counter
	SampleDuration  metric.Float64Histogram
	ResolversTested metric.Int64Counter
}

// New creates a new telemetry instance. When disabled, all providers are
// no-ops and recording is free.
func New(ctx context.Context, cfg *config.TelemetryConfig, logger *logging.Logger) (*Telemetry, error) {
	if !cfg.Enabled {
		logger.Debug("Telemetry disabled")
		return &Telemetry{
			cfg:            cfg,
			meterProvider:  noop.NewMeterProvider(),
			tracerProvider: tracenoop.NewTracerProvider(),
			logger:         logger,
		}, nil
	}

	t := &Telemetry{
		cfg:            cfg,
		tracerProvider: tracenoop.NewTracerProvider(),
		logger:         logger,
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := t.setupMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to setup metrics: %w", err)
	}

	logger.Info("Telemetry initialized",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"prometheus", cfg.PrometheusEnabled,
	)

	return t, nil
}

// setupMetrics initializes the metrics provider
func (t *Telemetry) setupMetrics(res *resource.Resource) error {
	if !t.cfg.PrometheusEnabled {
		t.meterProvider = noop.NewMeterProvider()
		return nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.prometheusExporter = exporter

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.meterProvider = provider
	otel.SetMeterProvider(provider)

	if err := t.startPrometheusServer(); err != nil {
		return fmt.Errorf("failed to start prometheus server: %w", err)
	}

	t.logger.Info("Prometheus metrics enabled", "port", t.cfg.PrometheusPort)
	return nil
}

// startPrometheusServer starts the Prometheus metrics HTTP server
func (t *Telemetry) startPrometheusServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	t.prometheusServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.cfg.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := t.prometheusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.logger.Error("Prometheus server failed", "error", err)
		}
	}()

	return nil
}

// InitMetrics initializes and returns the measurement metrics
func (t *Telemetry) InitMetrics() (*Metrics, error) {
	meter := t.meterProvider.Meter("dns-speedtest")

	probesTotal, err := meter.Int64Counter(
		"dns.probes.total",
		metric.WithDescription("Total number of latency probes sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create probes counter: %w", err)
	}

	probeFailures, err := meter.Int64Counter(
		"dns.probes.failed",
		metric.WithDescription("Number of probes that timed out or errored"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create probe failures counter: %w", err)
	}

	sampleDuration, err := meter.Float64Histogram(
		"dns.sample.duration",
		metric.WithDescription("Wall-clock duration of one resolver's full sample in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sample duration histogram: %w", err)
	}

	resolversTested, err := meter.Int64Counter(
		"dns.resolvers.tested",
		metric.WithDescription("Number of resolver samplings completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolvers tested counter: %w", err)
	}

	return &Metrics{
		ProbesTotal:     probesTotal,
		ProbeFailures:   probeFailures,
		SampleDuration:  sampleDuration,
		ResolversTested: resolversTested,
	}, nil
}

// MeterProvider returns the meter provider
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// TracerProvider returns the tracer provider
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// RecordSample records the completion of one resolver's sample. Safe on
// a nil receiver so the measurement core never branches on telemetry.
func (m *Metrics) RecordSample(ctx context.Context, resolver string, successes, requested int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("resolver", resolver))
	m.ProbesTotal.Add(ctx, int64(requested), attrs)
	m.ProbeFailures.Add(ctx, int64(requested-successes), attrs)
	m.SampleDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	m.ResolversTested.Add(ctx, 1)
}

// Shutdown gracefully shuts down telemetry
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.prometheusServer != nil {
		if err := t.prometheusServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("prometheus server shutdown: %w", err))
		}
	}

	if provider, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}
