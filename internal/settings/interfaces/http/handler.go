// Package http exposes the settings blob over the JSON API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"boilerlog/internal/audit"
	"boilerlog/internal/auth"
	settingsapp "boilerlog/internal/settings/application"
	settings "boilerlog/internal/settings/domain"
)

// Handler provides the settings HTTP endpoints.
type Handler struct {
	service *settingsapp.Service
	auditor audit.Logger
}

// NewHandler constructs a handler. The auditor may be nil.
func NewHandler(service *settingsapp.Service, auditor audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("settings handler: nil service")
	}
	return &Handler{service: service, auditor: auditor}, nil
}

// ServeHTTP handles /api/v1/settings.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/settings" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, params)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	var params settings.TestParameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	saved, err := h.service.Replace(r.Context(), &params)
	if err != nil {
		if errors.Is(err, settings.ErrVersionConflict) {
			http.Error(w, "settings changed since load, reload and retry", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.auditor != nil {
		_ = h.auditor.Log(r.Context(), audit.Entry{
			Actor:        auth.OperatorIDFromContext(r.Context()),
			Action:       "settings.replace",
			ResourceType: "settings",
			ResourceID:   "test-parameters",
			IP:           audit.ClientIP(r),
			UserAgent:    r.UserAgent(),
		})
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
