package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records block execution metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordBlockExecution records a block execution with duration and error status.
	RecordBlockExecution(ctx context.Context, name, kind string, duration time.Duration, err error)

	// RecordCacheHit records a fresh-cache short circuit.
	RecordCacheHit(ctx context.Context, name string)

	// RecordFallback records a recovery through a fallback block.
	RecordFallback(ctx context.Context, name string, recovered bool)

	// RecordSession records a document processing session.
	RecordSession(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	blockExecutions metric.Int64Counter
	blockLatency    metric.Float64Histogram
	blockErrors     metric.Int64Counter
	cacheHits       metric.Int64Counter
	fallbacks       metric.Int64Counter
	sessions        metric.Int64Counter
	sessionLatency  metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("blockrun")

	blockExecutions, err := meter.Int64Counter("blockrun.block.executions",
		metric.WithDescription("Number of block executions"),
	)
	if err != nil {
		return nil, err
	}

	blockLatency, err := meter.Float64Histogram("blockrun.block.latency_ms",
		metric.WithDescription("Block execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	blockErrors, err := meter.Int64Counter("blockrun.block.errors",
		metric.WithDescription("Number of block execution errors"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("blockrun.cache.hits",
		metric.WithDescription("Number of fresh-cache short circuits"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter("blockrun.fallback.recoveries",
		metric.WithDescription("Number of fallback recovery attempts"),
	)
	if err != nil {
		return nil, err
	}

	sessions, err := meter.Int64Counter("blockrun.session.runs",
		metric.WithDescription("Number of document processing sessions"),
	)
	if err != nil {
		return nil, err
	}

	sessionLatency, err := meter.Float64Histogram("blockrun.session.latency_ms",
		metric.WithDescription("Session latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		blockExecutions: blockExecutions,
		blockLatency:    blockLatency,
		blockErrors:     blockErrors,
		cacheHits:       cacheHits,
		fallbacks:       fallbacks,
		sessions:        sessions,
		sessionLatency:  sessionLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordBlockExecution records a block execution.
func (m *otelMetrics) RecordBlockExecution(ctx context.Context, name, kind string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("block", name),
		attribute.String("kind", kind),
	}

	m.blockExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.blockLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.blockErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordCacheHit records a fresh-cache short circuit.
func (m *otelMetrics) RecordCacheHit(ctx context.Context, name string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("block", name),
	))
}

// RecordFallback records a fallback recovery attempt.
func (m *otelMetrics) RecordFallback(ctx context.Context, name string, recovered bool) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("block", name),
		attribute.Bool("recovered", recovered),
	))
}

// RecordSession records a document processing session.
func (m *otelMetrics) RecordSession(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.sessions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.sessionLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
