package rateconfig

import (
	"encoding/json"
	"net/http"
)

// Handler serves GET /api/v1/rate-configs for admin inspection.
type Handler struct {
	registry *Registry
}

// NewHandler constructs a handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// ServeHTTP lists the loaded rate config snapshot.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.registry == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.registry.All())
}
