package health

import (
	"context"
	"time"
)

// Probe is a single health check. It returns nil when the checked
// dependency is healthy, or an error describing the failure. Probes
// should honor ctx cancellation; a probe that ignores ctx is abandoned
// once its timeout elapses (best-effort cancellation).
type Probe func(ctx context.Context) error

// Check describes one registered probe: a unique key, whether its
// failure makes the whole application unhealthy, and the probe itself.
// Checks are immutable once the containing Config has been validated.
type Check struct {
	// Key identifies this check. Unique within a Config.
	Key string

	// Mandatory marks this check as required for overall health.
	// Failures of non-mandatory checks are reported but do not flip
	// the overall verdict.
	Mandatory bool

	// Probe performs the check.
	Probe Probe
}

// Result is the outcome of one probe invocation.
type Result struct {
	// Key is the check's key.
	Key string `json:"key"`

	// Mandatory mirrors the check's mandatory flag.
	Mandatory bool `json:"mandatory"`

	// Success reports whether the probe passed.
	Success bool `json:"success"`

	// Error is the failure message. Empty iff Success.
	Error string `json:"error"`
}

// Snapshot is the complete outcome of one aggregation run. Snapshots
// are value objects: built once, published, and shared read-only with
// any number of concurrent callers.
type Snapshot struct {
	// Timestamp is when the run completed.
	Timestamp time.Time `json:"timestamp"`

	// Results maps check key to its result.
	Results map[string]Result `json:"results"`

	// Overall is true iff every mandatory result succeeded. It is
	// stored with the snapshot so a cache hit returns the verdict
	// that was actually computed, not an assumption of health.
	Overall bool `json:"overall"`
}

// overall computes the mandatory-only AND over a result set.
// Vacuously true when no mandatory checks exist.
func overall(results map[string]Result) bool {
	for _, r := range results {
		if r.Mandatory && !r.Success {
			return false
		}
	}
	return true
}
