package health

import (
	"fmt"
	"time"
)

// Config configures the aggregator. It is built once at application
// setup, validated by New, and read-only thereafter; it is safe to
// share across concurrent callers without synchronization.
type Config struct {
	// CacheDuration is how long a computed snapshot stays valid.
	CacheDuration time.Duration

	// ProbeTimeout is the maximum wait per probe before counting it
	// as a timeout failure. Applied per probe, not per run.
	ProbeTimeout time.Duration

	// Checks is the set of checks to run.
	Checks []Check
}

// Validate reports configuration errors: non-positive durations,
// empty or duplicate keys, nil probes. Configuration problems surface
// here, at construction time, never at query time.
func (c Config) Validate() error {
	if c.CacheDuration <= 0 {
		return fmt.Errorf("%w: cache duration %v", ErrInvalidDuration, c.CacheDuration)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: probe timeout %v", ErrInvalidDuration, c.ProbeTimeout)
	}

	seen := make(map[string]struct{}, len(c.Checks))
	for _, check := range c.Checks {
		if check.Key == "" {
			return ErrEmptyKey
		}
		if check.Probe == nil {
			return fmt.Errorf("%w: %q", ErrNilProbe, check.Key)
		}
		if _, ok := seen[check.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, check.Key)
		}
		seen[check.Key] = struct{}{}
	}

	return nil
}
