package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler returns an HTTP handler for liveness probes. It
// reports only that the process is serving requests and never runs
// a check.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler for readiness probes.
// It answers from the cached snapshot when fresh, so a load balancer
// polling this endpoint does not re-run probes on every request.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := agg.Health(r.Context())

		w.Header().Set("Content-Type", "text/plain")
		if snap.Overall {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("UNHEALTHY"))
	}
}

// HealthResponse is the JSON body of the detailed health endpoint.
type HealthResponse struct {
	Results   map[string]CheckResponse `json:"results"`
	Overall   bool                     `json:"overall"`
	Timestamp string                   `json:"timestamp"`
}

// CheckResponse is the JSON representation of a single check result.
type CheckResponse struct {
	Mandatory bool   `json:"mandatory"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// JSONHandler returns an HTTP handler serving the full snapshot as
// JSON: per-check results keyed by check key plus the overall verdict.
// Responds 200 when overall health is good, 503 otherwise.
func JSONHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := agg.Health(r.Context())

		response := HealthResponse{
			Results:   make(map[string]CheckResponse, len(snap.Results)),
			Overall:   snap.Overall,
			Timestamp: snap.Timestamp.UTC().Format(time.RFC3339),
		}
		for key, result := range snap.Results {
			response.Results[key] = CheckResponse{
				Mandatory: result.Mandatory,
				Success:   result.Success,
				Error:     result.Error,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if snap.Overall {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// RegisterHandlers registers the standard health endpoints on mux.
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", ReadinessHandler(agg))
	mux.HandleFunc("/health", JSONHandler(agg))
}
