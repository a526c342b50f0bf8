// Package telemetry wires OpenTelemetry tracing and metrics for an
// application embedding the health engine.
//
// Setup builds SDK providers from a small declarative config and
// installs them as the otel globals. The returned Provider hands out
// the tracer and meter the health aggregator accepts as options:
//
//	tel, err := telemetry.Setup(ctx, telemetry.Config{
//	    ServiceName: "orders",
//	    Version:     "1.4.2",
//	    Metrics:     telemetry.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Tracing:     telemetry.TracingConfig{Enabled: true, Exporter: "otlp", SampleRatio: 0.1},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(ctx)
//
//	agg, err := health.New(cfg,
//	    health.WithMeter(tel.Meter()),
//	    health.WithTracer(tel.Tracer()),
//	)
//
// Disabled subsystems resolve to the otel noop implementations, so a
// Provider is always safe to use regardless of configuration.
package telemetry
