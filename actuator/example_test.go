package actuator_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/actuator/actuator"
	"github.com/jonwraymond/actuator/health"
)

func ExampleNew() {
	act, err := actuator.New(actuator.Config{
		Name:        "orders",
		Environment: "production",
		Version:     "1.4.2",
		Port:        8080,
		Health: health.Config{
			CacheDuration: 10 * time.Second,
			ProbeTimeout:  2 * time.Second,
			Checks: []health.Check{
				{Key: "db", Mandatory: true, Probe: func(ctx context.Context) error {
					return nil
				}},
			},
		},
	})
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	snap := act.Health(context.Background())

	fmt.Println("alive:", act.Ping())
	fmt.Println("healthy:", snap.Overall)
	fmt.Println("app:", act.Info().Application.Name)
	// Output:
	// alive: true
	// healthy: true
	// app: orders
}
