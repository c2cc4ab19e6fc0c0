package handler

import (
	"net/http"

	"github.com/sharefare/backend/spec"
)

// Health handles GET /health. It reports process liveness only; database
// reachability is checked at startup, not per probe.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenAPI handles GET /openapi.yaml, serving the embedded API contract.
// Serving it from the binary means the contract and the running code are
// always in sync.
func (s *Server) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
