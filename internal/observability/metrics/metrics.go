package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "boilerlog_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	entrySubmissions *prometheus.CounterVec

	latestOutOfSpec prometheus.Gauge
	taskStates      *prometheus.GaugeVec

	statusResolutions *prometheus.CounterVec
	statusLatency     *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	settingsSaves *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		entrySubmissions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "entries_submitted_total",
				Help: "Total submitted log entries by kind",
			},
			[]string{"kind"},
		)

		latestOutOfSpec = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "latest_out_of_spec_parameters",
				Help: "Out-of-spec parameter count of the most recent water test",
			},
		)
		taskStates = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "task_state",
				Help: "Recurring task state (1 for the active state, 0 otherwise)",
			},
			[]string{"task", "state"},
		)

		statusResolutions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "status_resolutions_total",
				Help: "Total status snapshot derivations by result",
			},
			[]string{"result"},
		)
		statusLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "status_resolution_latency_seconds",
				Help:    "Status snapshot derivation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "history_export_total",
				Help: "Total history export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "history_export_latency_seconds",
				Help:    "History export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		settingsSaves = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settings_saves_total",
				Help: "Total settings replacements by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			entrySubmissions,
			latestOutOfSpec,
			taskStates,
			statusResolutions,
			statusLatency,
			exportTotal,
			exportLatency,
			settingsSaves,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// IncEntrySubmitted increments the submission counter for an entry kind.
func IncEntrySubmitted(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if entrySubmissions != nil {
		entrySubmissions.WithLabelValues(kind).Inc()
	}
}

// SetLatestOutOfSpec records the out-of-spec count of the newest test.
func SetLatestOutOfSpec(count int) {
	if latestOutOfSpec != nil {
		latestOutOfSpec.Set(float64(count))
	}
}

// SetTaskState marks the active state for a task, clearing the others.
func SetTaskState(task, active string, states []string) {
	if taskStates == nil || task == "" {
		return
	}
	for _, state := range states {
		value := 0.0
		if state == active {
			value = 1.0
		}
		taskStates.WithLabelValues(task, state).Set(value)
	}
}

// ObserveStatusResolution records one snapshot derivation.
func ObserveStatusResolution(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if statusResolutions != nil {
		statusResolutions.WithLabelValues(result).Inc()
	}
	if statusLatency != nil {
		statusLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncSettingsSave increments the settings replacement counter.
func IncSettingsSave(result string) {
	if result == "" {
		result = resultSuccess
	}
	if settingsSaves != nil {
		settingsSaves.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
