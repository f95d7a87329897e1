// Package telemetry wires OpenTelemetry tracing and metrics for the service.
//
// Setup installs global tracer and meter providers with console and/or
// OTLP/HTTP exporters and creates the instruments the handlers record to.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"boilerplate/internal/constants"
	"boilerplate/internal/models"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ErrNotReady is returned by Check until Setup has completed.
var ErrNotReady = errors.New("telemetry not initialized")

// Telemetry owns the tracer and meter providers created by Setup.
type Telemetry struct {
	logger         *logrus.Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	healthCounter  *HealthCounter
	ready          atomic.Bool
}

type options struct {
	consoleWriter  io.Writer
	readers        []sdkmetric.Reader
	spanProcessors []sdktrace.SpanProcessor
}

// Option customises Setup.
type Option func(*options)

// WithConsoleWriter sends console exporter output to w instead of stdout.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) { o.consoleWriter = w }
}

// WithMetricReader registers an additional metric reader, e.g. a
// sdkmetric.ManualReader in tests.
func WithMetricReader(r sdkmetric.Reader) Option {
	return func(o *options) { o.readers = append(o.readers, r) }
}

// WithSpanProcessor registers an additional span processor.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, sp) }
}

// Setup builds the providers described by cfg, installs them globally along
// with the W3C trace-context propagator, and creates the health counter.
func Setup(ctx context.Context, cfg *models.Config, logger *logrus.Logger, opts ...Option) (*Telemetry, error) {
	o := options{consoleWriter: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	tc := cfg.Telemetry

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(tc.ServiceName),
			semconv.ServiceVersionKey.String(cfg.App.Version),
			semconv.DeploymentEnvironmentKey.String(cfg.App.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(tc.SampleRate))),
	}
	metricOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
	}
	interval := time.Duration(tc.MetricExportIntervalMs) * time.Millisecond

	// Exporters built so far; shut down if a later one fails.
	var built []shutdowner

	if tc.ConsoleEnabled() {
		spanExporter, err := stdouttrace.New(
			stdouttrace.WithWriter(o.consoleWriter),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		built = append(built, spanExporter)
		metricExporter, err := stdoutmetric.New(
			stdoutmetric.WithWriter(o.consoleWriter),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			_ = discard(ctx, built)
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		built = append(built, metricExporter)
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval)),
		))
		logger.Info("Using console telemetry exporters")
	}

	if !tc.OTLPDisabled {
		spanExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(tc.TracesEndpoint))
		if err != nil {
			_ = discard(ctx, built)
			return nil, fmt.Errorf("failed to create OTLP HTTP trace exporter: %w", err)
		}
		built = append(built, spanExporter)
		metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(tc.MetricsEndpoint))
		if err != nil {
			_ = discard(ctx, built)
			return nil, fmt.Errorf("failed to create OTLP HTTP metric exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval)),
		))
		logger.WithFields(logrus.Fields{
			"traces_endpoint":  tc.TracesEndpoint,
			"metrics_endpoint": tc.MetricsEndpoint,
		}).Info("Using OTLP HTTP telemetry exporters")
	}

	for _, sp := range o.spanProcessors {
		traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(sp))
	}
	for _, r := range o.readers {
		metricOpts = append(metricOpts, sdkmetric.WithReader(r))
	}

	t := &Telemetry{
		logger:         logger,
		tracerProvider: sdktrace.NewTracerProvider(traceOpts...),
		meterProvider:  sdkmetric.NewMeterProvider(metricOpts...),
	}

	counter, err := NewHealthCounter(t.meterProvider.Meter(constants.InstrumentationName))
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	t.healthCounter = counter

	otel.SetTracerProvider(t.tracerProvider)
	otel.SetMeterProvider(t.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.WithError(err).Warn("OpenTelemetry export error")
	}))

	t.ready.Store(true)

	logger.WithFields(logrus.Fields{
		"service":     tc.ServiceName,
		"sample_rate": tc.SampleRate,
		"interval_ms": tc.MetricExportIntervalMs,
	}).Info("OpenTelemetry initialized")

	return t, nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// discard shuts down exporters that never made it into a provider.
func discard(ctx context.Context, built []shutdowner) error {
	var errs []error
	for _, s := range built {
		if err := s.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HealthCounter returns the health endpoint counter.
func (t *Telemetry) HealthCounter() *HealthCounter {
	if t == nil {
		return nil
	}
	return t.healthCounter
}

// Ready reports whether Setup completed and Shutdown has not run.
func (t *Telemetry) Ready() bool {
	return t != nil && t.ready.Load()
}

// Check is a readiness check suitable for healthcheck.Handler.
func (t *Telemetry) Check() error {
	if !t.Ready() {
		return ErrNotReady
	}
	return nil
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, constants.DefaultTelemetryShutdownSec*time.Second)
	defer cancel()

	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	t.logger.Info("OpenTelemetry shutdown completed")
	return nil
}
