// Package actuator embeds operational introspection endpoints into an
// application: aggregated health checks, identity and build metadata,
// environment and OS usage snapshots, and process utilities.
//
// The health engine (package health) does the real work; this package
// surrounds it with the flat accessors an operator expects and a
// single http.Handler that mounts them.
//
//	act, err := actuator.New(actuator.Config{
//	    Name:        "orders",
//	    Environment: "production",
//	    Version:     "1.4.2",
//	    Port:        8080,
//	    Health: health.Config{
//	        CacheDuration: 10 * time.Second,
//	        ProbeTimeout:  2 * time.Second,
//	        Checks: []health.Check{
//	            {Key: "db", Mandatory: true, Probe: dbProbe},
//	        },
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8081", act.Handler())
//
// # Sensitive Endpoints
//
// The env, shutdown and threaddump endpoints leak secrets or kill the
// process; gate them with WithTokenAuth and an HMAC secret, and they
// will demand a valid bearer JWT:
//
//	act, err := actuator.New(cfg, actuator.WithTokenAuth(secret))
//
// # Choosing Endpoints
//
// Config.Endpoints restricts what Handler mounts; an empty list means
// everything. A deployment that only wants health and ping:
//
//	cfg.Endpoints = []actuator.Endpoint{actuator.EndpointPing, actuator.EndpointHealth}
package actuator
