package actuator

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/jonwraymond/actuator/health"
)

// Endpoint identifies one introspection endpoint.
type Endpoint int

const (
	// EndpointPing is a trivial reachability check.
	EndpointPing Endpoint = iota
	// EndpointInfo exposes application, build and runtime identity.
	EndpointInfo
	// EndpointHealth exposes the aggregated health snapshot.
	EndpointHealth
	// EndpointEnv exposes the process environment snapshot.
	EndpointEnv
	// EndpointMetrics exposes an OS resource usage snapshot.
	EndpointMetrics
	// EndpointShutdown terminates the process.
	EndpointShutdown
	// EndpointThreadDump exposes an all-goroutine stack dump.
	EndpointThreadDump
)

// String returns the endpoint's URL path segment.
func (e Endpoint) String() string {
	switch e {
	case EndpointPing:
		return "ping"
	case EndpointInfo:
		return "info"
	case EndpointHealth:
		return "health"
	case EndpointEnv:
		return "env"
	case EndpointMetrics:
		return "metrics"
	case EndpointShutdown:
		return "shutdown"
	case EndpointThreadDump:
		return "threaddump"
	default:
		return "unknown"
	}
}

// Config configures an Actuator. Built once at application setup and
// read-only thereafter.
type Config struct {
	// Name is the application name.
	Name string

	// Environment is the deployment environment, e.g. "production".
	Environment string

	// Version is the application version.
	Version string

	// Port is the port the application serves on, reported in Info.
	Port int

	// Endpoints lists the endpoints to expose. Empty means all.
	Endpoints []Endpoint

	// Health configures the health aggregation engine.
	Health health.Config
}

// Actuator bundles the health engine with the flat introspection
// accessors: identity, build metadata, environment and OS usage
// snapshots, and process utilities. Safe for concurrent use.
type Actuator struct {
	cfg        Config
	info       Info
	env        map[string]string
	health     *health.Aggregator
	exit       func(code int)
	authSecret []byte
	healthOpts []health.Option
}

// Option configures an Actuator beyond its Config.
type Option func(*Actuator)

// WithHealthOptions forwards options to the underlying health
// aggregator, e.g. health.WithMeter or health.WithTracer.
func WithHealthOptions(opts ...health.Option) Option {
	return func(a *Actuator) {
		a.healthOpts = append(a.healthOpts, opts...)
	}
}

// WithTokenAuth gates the sensitive endpoints (env, shutdown,
// threaddump) behind bearer-token authentication. Tokens must be
// HMAC-signed JWTs verifiable with secret.
func WithTokenAuth(secret []byte) Option {
	return func(a *Actuator) {
		a.authSecret = secret
	}
}

// WithExitFunc overrides the function Shutdown calls to terminate the
// process. Intended for tests; the default is os.Exit.
func WithExitFunc(exit func(code int)) Option {
	return func(a *Actuator) {
		a.exit = exit
	}
}

// New creates an Actuator. The health configuration is validated
// here; identity, build metadata and the environment snapshot are
// captured once and never change afterwards.
func New(cfg Config, opts ...Option) (*Actuator, error) {
	a := &Actuator{
		cfg:  cfg,
		info: newInfo(cfg),
		env:  envSnapshot(),
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt(a)
	}

	agg, err := health.New(cfg.Health, a.healthOpts...)
	if err != nil {
		return nil, err
	}
	a.health = agg

	return a, nil
}

// Ping reports that the process is alive. It always returns true;
// its value is that the caller got an answer at all.
func (a *Actuator) Ping() bool {
	return true
}

// Info returns the application identity captured at construction.
func (a *Actuator) Info() Info {
	return a.info
}

// Health returns the current aggregated health snapshot, running the
// configured checks if the cached snapshot has gone stale.
func (a *Actuator) Health(ctx context.Context) health.Snapshot {
	return a.health.Health(ctx)
}

// Env returns a copy of the process environment as captured at
// construction.
func (a *Actuator) Env() map[string]string {
	env := make(map[string]string, len(a.env))
	for k, v := range a.env {
		env[k] = v
	}
	return env
}

// Shutdown terminates the process with exit code 0.
func (a *Actuator) Shutdown() {
	a.exit(0)
}

// ThreadDump returns the stack traces of all current goroutines.
func (a *Actuator) ThreadDump() string {
	buf := make([]byte, 1<<20)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}

// enabled reports whether an endpoint should be exposed.
func (a *Actuator) enabled(e Endpoint) bool {
	if len(a.cfg.Endpoints) == 0 {
		return true
	}
	for _, configured := range a.cfg.Endpoints {
		if configured == e {
			return true
		}
	}
	return false
}

func envSnapshot() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
