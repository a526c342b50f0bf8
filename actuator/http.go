package actuator

import (
	"encoding/json"
	"net/http"

	"github.com/jonwraymond/actuator/health"
)

// Handler returns an http.Handler exposing the configured endpoints:
//
//	GET  /ping        reachability, always 200
//	GET  /info        application, build and runtime identity
//	GET  /health      aggregated health snapshot (200 or 503)
//	GET  /env         process environment snapshot
//	GET  /metrics     OS resource usage snapshot
//	POST /shutdown    terminate the process
//	GET  /threaddump  all-goroutine stack dump
//
// Endpoints absent from Config.Endpoints are not mounted. When token
// auth is configured, env, shutdown and threaddump require a valid
// bearer token.
func (a *Actuator) Handler() http.Handler {
	mux := http.NewServeMux()

	if a.enabled(EndpointPing) {
		mux.HandleFunc("GET /ping", a.handlePing)
	}
	if a.enabled(EndpointInfo) {
		mux.HandleFunc("GET /info", a.handleInfo)
	}
	if a.enabled(EndpointHealth) {
		mux.Handle("GET /health", health.JSONHandler(a.health))
	}
	if a.enabled(EndpointMetrics) {
		mux.HandleFunc("GET /metrics", a.handleMetrics)
	}
	if a.enabled(EndpointEnv) {
		mux.Handle("GET /env", a.protect(http.HandlerFunc(a.handleEnv)))
	}
	if a.enabled(EndpointShutdown) {
		mux.Handle("POST /shutdown", a.protect(http.HandlerFunc(a.handleShutdown)))
	}
	if a.enabled(EndpointThreadDump) {
		mux.Handle("GET /threaddump", a.protect(http.HandlerFunc(a.handleThreadDump)))
	}

	return mux
}

func (a *Actuator) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (a *Actuator) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Info())
}

func (a *Actuator) handleEnv(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Env())
}

func (a *Actuator) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := a.SystemMetrics(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (a *Actuator) handleShutdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "shutting down"})
	a.Shutdown()
}

func (a *Actuator) handleThreadDump(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(a.ThreadDump()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
