package health_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/actuator/health"
)

func ExampleNew() {
	agg, err := health.New(health.Config{
		CacheDuration: time.Second,
		ProbeTimeout:  50 * time.Millisecond,
		Checks: []health.Check{
			{Key: "db", Mandatory: true, Probe: func(ctx context.Context) error {
				return nil
			}},
			{Key: "cache", Probe: func(ctx context.Context) error {
				return errors.New("conn refused")
			}},
		},
	})
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	snap := agg.Health(context.Background())

	fmt.Println("overall:", snap.Overall)
	fmt.Println("db:", snap.Results["db"].Success)
	fmt.Println("cache:", snap.Results["cache"].Success, snap.Results["cache"].Error)
	// Output:
	// overall: true
	// db: true
	// cache: false conn refused
}

func ExampleNew_duplicateKey() {
	_, err := health.New(health.Config{
		CacheDuration: time.Second,
		ProbeTimeout:  time.Second,
		Checks: []health.Check{
			{Key: "db", Probe: func(ctx context.Context) error { return nil }},
			{Key: "db", Probe: func(ctx context.Context) error { return nil }},
		},
	})

	fmt.Println(errors.Is(err, health.ErrDuplicateKey))
	// Output:
	// true
}

func ExampleAggregator_Health_cached() {
	calls := 0
	agg, _ := health.New(health.Config{
		CacheDuration: time.Minute,
		ProbeTimeout:  time.Second,
		Checks: []health.Check{
			{Key: "db", Mandatory: true, Probe: func(ctx context.Context) error {
				calls++
				return nil
			}},
		},
	})

	agg.Health(context.Background())
	agg.Health(context.Background())

	fmt.Println("probe calls:", calls)
	// Output:
	// probe calls: 1
}
