package directory

import (
	"encoding/json"
	"net/http"
)

// Handler serves GET /api/v1/salespeople.
type Handler struct {
	provider Provider
}

// NewHandler constructs a handler.
func NewHandler(provider Provider) *Handler {
	return &Handler{provider: provider}
}

// ServeHTTP lists active sales staff.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.provider == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	people, err := h.provider.ListSalespeople(r.Context())
	if err != nil {
		http.Error(w, "list salespeople error", http.StatusInternalServerError)
		return
	}
	active := make([]Salesperson, 0, len(people))
	for _, person := range people {
		if person.Active {
			active = append(active, person)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(active)
}
