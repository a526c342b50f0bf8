package health

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// runMetrics records aggregation metrics on an OpenTelemetry meter.
// The default meter is the noop implementation, so recording is free
// unless WithMeter installed a real one.
type runMetrics struct {
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	probeFailures metric.Int64Counter
	probeDuration metric.Float64Histogram
	runDuration   metric.Float64Histogram
}

func newRunMetrics(meter metric.Meter) (*runMetrics, error) {
	cacheHits, err := meter.Int64Counter(
		"health.cache.hits",
		metric.WithDescription("Health queries answered from the cached snapshot"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"health.cache.misses",
		metric.WithDescription("Health queries that triggered an aggregation run"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	probeFailures, err := meter.Int64Counter(
		"health.probe.failures",
		metric.WithDescription("Probe invocations that failed or timed out"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	probeDuration, err := meter.Float64Histogram(
		"health.probe.duration_ms",
		metric.WithDescription("Probe invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"health.run.duration_ms",
		metric.WithDescription("Full aggregation run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &runMetrics{
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		probeFailures: probeFailures,
		probeDuration: probeDuration,
		runDuration:   runDuration,
	}, nil
}

func (m *runMetrics) recordHit(ctx context.Context) {
	m.cacheHits.Add(ctx, 1)
}

func (m *runMetrics) recordMiss(ctx context.Context) {
	m.cacheMisses.Add(ctx, 1)
}

func (m *runMetrics) recordProbe(ctx context.Context, result Result, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("check.key", result.Key),
		attribute.Bool("check.mandatory", result.Mandatory),
	)

	m.probeDuration.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
	if !result.Success {
		m.probeFailures.Add(ctx, 1, opt)
	}
}

func (m *runMetrics) recordRun(ctx context.Context, duration time.Duration) {
	m.runDuration.Record(ctx, float64(duration)/float64(time.Millisecond))
}
