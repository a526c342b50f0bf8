package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"
)

// Aggregator runs a configured set of health checks and caches the
// combined snapshot so repeated health queries do not re-run expensive
// probes on every call. It is safe for concurrent use.
type Aggregator struct {
	cfg     Config
	cache   *snapshotCache
	now     func() time.Time
	meter   metric.Meter
	tracer  trace.Tracer
	metrics *runMetrics
	sf      *singleflight.Group
}

// Option configures an Aggregator beyond its Config.
type Option func(*Aggregator)

// WithMeter installs an OpenTelemetry meter for cache hit/miss
// counters and probe/run duration histograms.
func WithMeter(meter metric.Meter) Option {
	return func(a *Aggregator) {
		a.meter = meter
	}
}

// WithTracer installs an OpenTelemetry tracer; health queries and
// aggregation runs are recorded as spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Aggregator) {
		a.tracer = tracer
	}
}

// WithClock overrides the time source used for snapshot timestamps
// and cache freshness. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithSingleFlight coalesces concurrent cache misses into a single
// aggregation run shared by all waiting callers. By default every
// miss runs independently.
func WithSingleFlight() Option {
	return func(a *Aggregator) {
		a.sf = new(singleflight.Group)
	}
}

// New creates an Aggregator. Configuration errors (duplicate or empty
// keys, nil probes, non-positive durations) are returned here; health
// queries themselves never fail.
func New(cfg Config, opts ...Option) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Aggregator{
		cfg:    cfg,
		cache:  new(snapshotCache),
		now:    time.Now,
		meter:  noop.NewMeterProvider().Meter("health"),
		tracer: tracenoop.NewTracerProvider().Tracer("health"),
	}
	for _, opt := range opts {
		opt(a)
	}

	metrics, err := newRunMetrics(a.meter)
	if err != nil {
		return nil, err
	}
	a.metrics = metrics

	return a, nil
}

// Health returns the current health snapshot. If the cached snapshot
// is still within CacheDuration it is returned as-is, including its
// Overall verdict; otherwise all checks run concurrently, the fresh
// snapshot is published, and that snapshot is returned. Health never
// returns an error: probe failures are data in the snapshot.
func (a *Aggregator) Health(ctx context.Context) Snapshot {
	ctx, span := a.tracer.Start(ctx, "health.Health")
	defer span.End()

	if snap, ok := a.cache.get(a.now(), a.cfg.CacheDuration); ok {
		a.metrics.recordHit(ctx)
		span.SetAttributes(attribute.Bool("health.cache_hit", true))
		return snap
	}
	a.metrics.recordMiss(ctx)
	span.SetAttributes(attribute.Bool("health.cache_hit", false))

	if a.sf != nil {
		v, _, _ := a.sf.Do("run", func() (any, error) {
			return a.Refresh(ctx), nil
		})
		return v.(Snapshot)
	}
	return a.Refresh(ctx)
}

// Refresh runs every check concurrently, publishes the resulting
// snapshot regardless of the cache's freshness, and returns it.
func (a *Aggregator) Refresh(ctx context.Context) Snapshot {
	ctx, span := a.tracer.Start(ctx, "health.Refresh")
	defer span.End()

	start := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]Result, len(a.cfg.Checks))

	for _, check := range a.cfg.Checks {
		wg.Add(1)
		go func(check Check) {
			defer wg.Done()
			result := a.runProbe(ctx, check)
			mu.Lock()
			results[check.Key] = result
			mu.Unlock()
		}(check)
	}

	wg.Wait()

	snap := Snapshot{
		Timestamp: a.now(),
		Results:   results,
		Overall:   overall(results),
	}
	a.cache.put(snap)

	a.metrics.recordRun(ctx, time.Since(start))
	span.SetAttributes(attribute.Bool("health.overall", snap.Overall))
	return snap
}

// CheckKeys returns the configured check keys in registration order.
func (a *Aggregator) CheckKeys() []string {
	keys := make([]string, len(a.cfg.Checks))
	for i, check := range a.cfg.Checks {
		keys[i] = check.Key
	}
	return keys
}

// runProbe invokes one probe bounded by the configured timeout. Each
// probe gets its own deadline; a slow probe neither delays nor cancels
// its siblings. A probe that outlives its deadline is recorded as a
// timeout failure and its goroutine abandoned; the ctx passed to the
// probe is cancelled, which is as much cancellation as a cooperative
// probe allows.
func (a *Aggregator) runProbe(ctx context.Context, check Check) Result {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ProbeTimeout)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, 1)

	go func() {
		errCh <- check.Probe(ctx)
	}()

	result := Result{Key: check.Key, Mandatory: check.Mandatory}

	select {
	case err := <-errCh:
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
		}
	case <-ctx.Done():
		result.Error = fmt.Sprintf("%s after %s", ErrProbeTimeout, a.cfg.ProbeTimeout)
	}

	a.metrics.recordProbe(ctx, result, time.Since(start))
	return result
}
