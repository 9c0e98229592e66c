package exports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	logapp "boilerlog/internal/logbook/application"
	"boilerlog/internal/observability/metrics"
	settings "boilerlog/internal/settings/domain"
)

// SettingsProvider yields the active settings blob.
type SettingsProvider interface {
	Current(ctx context.Context) (*settings.TestParameters, error)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Handler serves history downloads in csv, xlsx and pdf formats.
type Handler struct {
	service  *logapp.Service
	settings SettingsProvider
	clock    Clock
}

// HandlerOption customizes the handler.
type HandlerOption func(*Handler)

// WithClock assigns a clock.
func WithClock(clock Clock) HandlerOption {
	return func(h *Handler) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// NewHandler constructs a handler.
func NewHandler(service *logapp.Service, provider SettingsProvider, opts ...HandlerOption) (*Handler, error) {
	if service == nil {
		return nil, errors.New("exports handler: nil service")
	}
	if provider == nil {
		return nil, errors.New("exports handler: nil settings provider")
	}
	handler := &Handler{service: service, settings: provider, clock: systemClock{}}
	for _, opt := range opts {
		opt(handler)
	}
	return handler, nil
}

// ServeHTTP handles /api/v1/exports/history.{csv,xlsx,pdf} with optional
// start and end date bounds.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var format string
	switch r.URL.Path {
	case "/api/v1/exports/history.csv":
		format = "csv"
	case "/api/v1/exports/history.xlsx":
		format = "xlsx"
	case "/api/v1/exports/history.pdf":
		format = "pdf"
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	started := h.clock.Now()
	payload, contentType, err := h.build(r, format)
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, h.clock.Now().Sub(started))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, h.clock.Now().Sub(started))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "history."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) build(r *http.Request, format string) ([]byte, string, error) {
	entries, err := h.service.Export(r.Context(), r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		return nil, "", err
	}
	params, err := h.settings.Current(r.Context())
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "csv":
		payload, err := BuildHistoryCSV(entries, params)
		return payload, "text/csv", err
	case "xlsx":
		payload, err := BuildHistoryXLSX(entries, params)
		return payload, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		payload, err := BuildHistoryPDF(entries, params, h.clock.Now())
		return payload, "application/pdf", err
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
