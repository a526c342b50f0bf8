package health

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func succeedProbe(_ context.Context) error { return nil }

func failProbe(msg string) Probe {
	return func(_ context.Context) error { return errors.New(msg) }
}

func sleepProbe(d time.Duration) Probe {
	return func(_ context.Context) error {
		time.Sleep(d)
		return nil
	}
}

func testConfig(checks ...Check) Config {
	return Config{
		CacheDuration: time.Second,
		ProbeTimeout:  50 * time.Millisecond,
		Checks:        checks,
	}
}

func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "zero cache duration",
			cfg: Config{
				ProbeTimeout: time.Second,
				Checks:       []Check{{Key: "db", Probe: succeedProbe}},
			},
			want: ErrInvalidDuration,
		},
		{
			name: "negative probe timeout",
			cfg: Config{
				CacheDuration: time.Second,
				ProbeTimeout:  -time.Second,
				Checks:        []Check{{Key: "db", Probe: succeedProbe}},
			},
			want: ErrInvalidDuration,
		},
		{
			name: "duplicate key",
			cfg: testConfig(
				Check{Key: "db", Probe: succeedProbe},
				Check{Key: "db", Probe: succeedProbe},
			),
			want: ErrDuplicateKey,
		},
		{
			name: "empty key",
			cfg:  testConfig(Check{Probe: succeedProbe}),
			want: ErrEmptyKey,
		},
		{
			name: "nil probe",
			cfg:  testConfig(Check{Key: "db"}),
			want: ErrNilProbe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_ValidConfig(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "db", Mandatory: true, Probe: succeedProbe},
		Check{Key: "cache", Probe: succeedProbe},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	keys := agg.CheckKeys()
	if len(keys) != 2 || keys[0] != "db" || keys[1] != "cache" {
		t.Errorf("CheckKeys() = %v, want [db cache]", keys)
	}
}

func TestHealth_AllMandatoryPass(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "db", Mandatory: true, Probe: succeedProbe},
		Check{Key: "cache", Mandatory: false, Probe: failProbe("conn refused")},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := agg.Health(context.Background())

	if !snap.Overall {
		t.Error("Overall = false, want true: optional failures must not flip the verdict")
	}
	if len(snap.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(snap.Results))
	}

	db := snap.Results["db"]
	if !db.Mandatory || !db.Success || db.Error != "" {
		t.Errorf("db result = %+v, want mandatory success with empty error", db)
	}

	cache := snap.Results["cache"]
	if cache.Mandatory || cache.Success {
		t.Errorf("cache result = %+v, want optional failure", cache)
	}
	if cache.Error != "conn refused" {
		t.Errorf("cache error = %q, want the probe's message verbatim", cache.Error)
	}
}

func TestHealth_MandatoryFailureFlipsOverall(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "db", Mandatory: true, Probe: failProbe("down")},
		Check{Key: "cache", Probe: succeedProbe},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := agg.Health(context.Background())

	if snap.Overall {
		t.Error("Overall = true, want false")
	}
	if !snap.Results["cache"].Success {
		t.Error("sibling check should still succeed when another fails")
	}
}

func TestHealth_AllOptional(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "a", Probe: failProbe("x")},
		Check{Key: "b", Probe: failProbe("y")},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if snap := agg.Health(context.Background()); !snap.Overall {
		t.Error("Overall = false, want true: all checks are optional")
	}
}

func TestHealth_NoChecks(t *testing.T) {
	agg, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := agg.Health(context.Background())
	if !snap.Overall {
		t.Error("Overall = false, want vacuous true with no checks")
	}
	if len(snap.Results) != 0 {
		t.Errorf("got %d results, want 0", len(snap.Results))
	}
}

func TestHealth_Timeout(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "db", Mandatory: true, Probe: sleepProbe(200 * time.Millisecond)},
		Check{Key: "cache", Probe: failProbe("conn refused")},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := agg.Health(context.Background())

	db := snap.Results["db"]
	if db.Success {
		t.Error("db.Success = true, want timeout failure")
	}
	if !strings.Contains(db.Error, ErrProbeTimeout.Error()) {
		t.Errorf("db.Error = %q, want a timeout message", db.Error)
	}
	if snap.Overall {
		t.Error("Overall = true, want false: a mandatory check timed out")
	}

	// The slow probe must not interfere with its sibling.
	cache := snap.Results["cache"]
	if cache.Success || cache.Error != "conn refused" {
		t.Errorf("cache result = %+v, want its own failure untouched", cache)
	}
}

func TestHealth_TimeoutDistinctFromFailure(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "slow", Probe: sleepProbe(200 * time.Millisecond)},
		Check{Key: "broken", Probe: failProbe("broken pipe")},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := agg.Health(context.Background())

	if strings.Contains(snap.Results["broken"].Error, ErrProbeTimeout.Error()) {
		t.Error("probe-reported failure must not look like a timeout")
	}
	if snap.Results["slow"].Error == snap.Results["broken"].Error {
		t.Error("timeout and failure messages must be distinguishable")
	}
}

func TestHealth_CacheFreshness(t *testing.T) {
	var calls atomic.Int64
	probe := func(_ context.Context) error {
		calls.Add(1)
		return nil
	}

	now := time.Unix(1000, 0)
	agg, err := New(Config{
		CacheDuration: time.Second,
		ProbeTimeout:  50 * time.Millisecond,
		Checks:        []Check{{Key: "db", Mandatory: true, Probe: probe}},
	}, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first := agg.Health(context.Background())
	if got := calls.Load(); got != 1 {
		t.Fatalf("probe calls after first query = %d, want 1", got)
	}

	// Just inside the TTL: answered from cache, no probe re-run.
	now = now.Add(time.Second - time.Millisecond)
	second := agg.Health(context.Background())
	if got := calls.Load(); got != 1 {
		t.Errorf("probe calls after fresh hit = %d, want 1", got)
	}
	if second.Timestamp != first.Timestamp {
		t.Error("fresh hit should return the cached snapshot verbatim")
	}
	if second.Overall != first.Overall || len(second.Results) != len(first.Results) {
		t.Error("fresh hit should be idempotent with the triggering query")
	}

	// Just past the TTL: re-aggregates.
	now = now.Add(2 * time.Millisecond)
	third := agg.Health(context.Background())
	if got := calls.Load(); got != 2 {
		t.Errorf("probe calls after stale query = %d, want 2", got)
	}
	if !third.Timestamp.After(first.Timestamp) {
		t.Error("re-aggregation should publish a newer snapshot")
	}
}

func TestHealth_CachedOverallReturnedVerbatim(t *testing.T) {
	healthy := atomic.Bool{}

	now := time.Unix(1000, 0)
	agg, err := New(Config{
		CacheDuration: time.Second,
		ProbeTimeout:  50 * time.Millisecond,
		Checks: []Check{{Key: "db", Mandatory: true, Probe: func(_ context.Context) error {
			if healthy.Load() {
				return nil
			}
			return errors.New("down")
		}}},
	}, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if snap := agg.Health(context.Background()); snap.Overall {
		t.Fatal("first snapshot should be unhealthy")
	}

	// The dependency recovers, but the cache is still fresh: the hit
	// must report the cached unhealthy verdict, not assume health.
	healthy.Store(true)
	now = now.Add(500 * time.Millisecond)
	if snap := agg.Health(context.Background()); snap.Overall {
		t.Error("fresh hit must return the stored verdict, not freshness-implies-health")
	}

	now = now.Add(time.Second)
	if snap := agg.Health(context.Background()); !snap.Overall {
		t.Error("stale query should observe the recovery")
	}
}

func TestRefresh_BypassesCache(t *testing.T) {
	var calls atomic.Int64
	agg, err := New(testConfig(Check{Key: "db", Probe: func(_ context.Context) error {
		calls.Add(1)
		return nil
	}}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	agg.Health(context.Background())
	agg.Refresh(context.Background())

	if got := calls.Load(); got != 2 {
		t.Errorf("probe calls = %d, want 2: Refresh must ignore freshness", got)
	}
}

func TestHealth_SingleFlight(t *testing.T) {
	var calls atomic.Int64
	gate := make(chan struct{})
	probe := func(_ context.Context) error {
		calls.Add(1)
		<-gate
		return nil
	}

	agg, err := New(Config{
		CacheDuration: time.Second,
		ProbeTimeout:  time.Second,
		Checks:        []Check{{Key: "db", Probe: probe}},
	}, WithSingleFlight())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Health(context.Background())
		}()
	}

	// Let every caller miss the cache and queue behind the run.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("probe calls = %d, want 1 coalesced run", got)
	}
}

func TestHealth_ConcurrentQueries(t *testing.T) {
	agg, err := New(testConfig(
		Check{Key: "db", Mandatory: true, Probe: succeedProbe},
		Check{Key: "cache", Probe: failProbe("x")},
	))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := agg.Health(context.Background())
			if !snap.Overall {
				t.Error("Overall = false, want true")
			}
			if len(snap.Results) != 2 {
				t.Errorf("got %d results, want 2: partial snapshots must never publish", len(snap.Results))
			}
		}()
	}
	wg.Wait()
}
