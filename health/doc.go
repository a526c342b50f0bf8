// Package health aggregates independent health checks into a single
// cached pass/fail snapshot.
//
// An Aggregator runs a configured set of probes concurrently, each
// bounded by its own timeout, and combines the per-probe results into
// a Snapshot: one Result per check plus an Overall verdict. The
// verdict is the AND over the mandatory checks only; optional checks
// are reported but never flip Overall. Snapshots are cached for a
// configurable duration so frequent health queries, such as load
// balancer polls, do not re-run expensive probes on every call.
//
// # Basic Usage
//
//	agg, err := health.New(health.Config{
//	    CacheDuration: 10 * time.Second,
//	    ProbeTimeout:  2 * time.Second,
//	    Checks: []health.Check{
//	        {Key: "database", Mandatory: true, Probe: dbProbe},
//	        {Key: "cache", Probe: health.TCPProbe("redis:6379")},
//	    },
//	})
//	if err != nil {
//	    // duplicate keys, nil probes and bad durations fail here,
//	    // never at query time
//	    log.Fatal(err)
//	}
//
//	snap := agg.Health(ctx)
//	if !snap.Overall {
//	    // at least one mandatory check failed or timed out
//	}
//
// Health never returns an error. A degraded dependency shows up as a
// failed Result inside the snapshot; the query itself always succeeds.
//
// # Caching
//
// A snapshot younger than CacheDuration is returned verbatim,
// including its Overall verdict, without running any probe. Once it
// goes stale the next query triggers a full run. Concurrent queries
// that miss the cache each run independently; WithSingleFlight opts
// in to coalescing them into one shared run.
//
// # Timeouts
//
// Each probe invocation carries its own ProbeTimeout deadline. A
// probe that misses it is recorded as a timeout failure, distinct
// from a failure the probe reported itself, and its siblings are
// unaffected: a run always completes with one Result per check.
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
//	// GET /healthz  liveness, always 200
//	// GET /readyz   200 or 503 from the overall verdict
//	// GET /health   full JSON snapshot
//
// # Observability
//
// WithMeter and WithTracer attach OpenTelemetry instrumentation:
// cache hit/miss counters, probe failure counts, probe and run
// duration histograms, and spans around queries and runs. Without
// them the noop implementations are used.
package health
