// Package http exposes the dashboard status snapshot.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	dashapp "boilerlog/internal/dashboard/application"
)

// Handler provides the status endpoint.
type Handler struct {
	status *dashapp.StatusService
}

// NewHandler constructs a handler.
func NewHandler(status *dashapp.StatusService) (*Handler, error) {
	if status == nil {
		return nil, errors.New("dashboard handler: nil status service")
	}
	return &Handler{status: status}, nil
}

// ServeHTTP handles GET /api/v1/status. An optional at=RFC3339 query drives
// the simulated-date diagnostic view.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/status" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var at time.Time
	if value := r.URL.Query().Get("at"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			http.Error(w, "at must be RFC3339", http.StatusBadRequest)
			return
		}
		at = parsed
	}

	snapshot, err := h.status.Snapshot(r.Context(), at)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}
