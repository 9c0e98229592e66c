// Package http exposes the logbook over the JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"boilerlog/internal/audit"
	"boilerlog/internal/auth"
	logapp "boilerlog/internal/logbook/application"
	logbook "boilerlog/internal/logbook/domain"
	"boilerlog/internal/speceval"
	settings "boilerlog/internal/settings/domain"
)

// SettingsProvider yields the active settings blob for spec evaluation.
type SettingsProvider interface {
	Current(ctx context.Context) (*settings.TestParameters, error)
}

// Handler provides the logbook HTTP endpoints.
type Handler struct {
	service  *logapp.Service
	settings SettingsProvider
	auditor  audit.Logger
}

// NewHandler constructs a handler. The auditor may be nil.
func NewHandler(service *logapp.Service, provider SettingsProvider, auditor audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("logbook handler: nil service")
	}
	if provider == nil {
		return nil, errors.New("logbook handler: nil settings provider")
	}
	return &Handler{service: service, settings: provider, auditor: auditor}, nil
}

// ServeHTTP handles /api/v1/watertests, /api/v1/weekly-evaporations and
// /api/v1/comments.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/watertests":
		switch r.Method {
		case http.MethodPost:
			h.handleCreateWaterTest(w, r)
		case http.MethodGet:
			h.handleListWaterTests(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case r.URL.Path == "/api/v1/watertests/latest":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleLatest(w, r)
	case r.URL.Path == "/api/v1/watertests/history":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleHistory(w, r)
	case r.URL.Path == "/api/v1/watertests/series":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleSeries(w, r)
	case r.URL.Path == "/api/v1/weekly-evaporations":
		switch r.Method {
		case http.MethodPost:
			h.handleCreateWeekly(w, r)
		case http.MethodGet:
			h.handleListWeekly(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case r.URL.Path == "/api/v1/comments":
		switch r.Method {
		case http.MethodPost:
			h.handleCreateComment(w, r)
		case http.MethodGet:
			h.handleListComments(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleCreateWaterTest(w http.ResponseWriter, r *http.Request) {
	var entry logbook.WaterTestEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if entry.TestedByUserID == "" {
		entry.TestedByUserID = auth.OperatorIDFromContext(r.Context())
	}
	created, err := h.service.AddWaterTest(r.Context(), &entry)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.logAudit(r, "watertest.create", "watertest", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListWaterTests(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, err := h.service.RecentTests(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []logbook.WaterTestEntry{}
	}
	writeJSON(w, http.StatusOK, list)
}

// latestResponse pairs the newest entry with its spec report.
type latestResponse struct {
	Entry  *logbook.WaterTestEntry `json:"entry"`
	Report *speceval.EntryReport   `json:"report,omitempty"`
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.LatestTest(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	response := latestResponse{Entry: entry}
	if entry != nil {
		params, err := h.settings.Current(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		report := speceval.EvaluateEntry(entry, params)
		response.Report = &report
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page, err := h.service.History(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if page.Entries == nil {
		page.Entries = []logbook.WaterTestEntry{}
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	parameter := r.URL.Query().Get("parameter")
	if parameter == "" {
		http.Error(w, "parameter is required", http.StatusBadRequest)
		return
	}
	points, err := h.service.Series(r.Context(), parameter, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if points == nil {
		points = []logapp.SeriesPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) handleCreateWeekly(w http.ResponseWriter, r *http.Request) {
	var entry logbook.WeeklyEvaporationLog
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if entry.OperatorID == "" {
		entry.OperatorID = auth.OperatorIDFromContext(r.Context())
	}
	created, err := h.service.AddWeeklyEvaporation(r.Context(), &entry)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.logAudit(r, "weekly-evaporation.create", "weekly-evaporation", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListWeekly(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, err := h.service.WeeklyLogs(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []logbook.WeeklyEvaporationLog{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var entry logbook.CommentLog
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if entry.UserID == "" {
		entry.UserID = auth.OperatorIDFromContext(r.Context())
	}
	created, err := h.service.AddComment(r.Context(), &entry)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.logAudit(r, "comment.create", "comment", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, err := h.service.RecentComments(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []logbook.CommentLog{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) logAudit(r *http.Request, action, resourceType, resourceID string) {
	if h.auditor == nil {
		return
	}
	_ = h.auditor.Log(r.Context(), audit.Entry{
		Actor:        auth.OperatorIDFromContext(r.Context()),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

// parseHistoryFilter reads start/end dates, pagination, and per-parameter
// bounds of the form min_<key> and max_<key>.
func parseHistoryFilter(r *http.Request) (logapp.HistoryFilter, error) {
	query := r.URL.Query()
	filter := logapp.HistoryFilter{
		StartDate: query.Get("start"),
		EndDate:   query.Get("end"),
	}
	var err error
	if filter.Page, err = parseIntQuery(r, "page", 0); err != nil {
		return filter, err
	}
	if filter.PageSize, err = parseIntQuery(r, "pageSize", 0); err != nil {
		return filter, err
	}
	for key, values := range query {
		var isMin bool
		var parameter string
		switch {
		case strings.HasPrefix(key, "min_"):
			isMin = true
			parameter = strings.TrimPrefix(key, "min_")
		case strings.HasPrefix(key, "max_"):
			parameter = strings.TrimPrefix(key, "max_")
		default:
			continue
		}
		if parameter == "" || len(values) == 0 || values[0] == "" {
			continue
		}
		value, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return filter, errors.New(key + " must be numeric")
		}
		if filter.Readings == nil {
			filter.Readings = map[string]logapp.RangeBound{}
		}
		bound := filter.Readings[parameter]
		if isMin {
			bound.Min = &value
		} else {
			bound.Max = &value
		}
		filter.Readings[parameter] = bound
	}
	return filter, nil
}

func parseIntQuery(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return parsed, nil
}

func respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, logbook.ErrInvalidEntry) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
