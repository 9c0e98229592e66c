// Package application derives the dashboard status snapshot: recurring task
// states plus the spec report for the most recent water test.
package application

import (
	"context"
	"errors"
	"log"
	"time"

	logbook "boilerlog/internal/logbook/domain"
	"boilerlog/internal/observability/metrics"
	"boilerlog/internal/speceval"
	settings "boilerlog/internal/settings/domain"
	"boilerlog/internal/tasks"
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// SettingsProvider yields the active settings blob.
type SettingsProvider interface {
	Current(ctx context.Context) (*settings.TestParameters, error)
}

// Snapshot is one derived dashboard state. Nothing in it is stored; it is
// recomputed from the logs on every request.
type Snapshot struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	ResolvedAt  time.Time               `json:"resolvedAt"`
	Tasks       tasks.Overview          `json:"tasks"`
	LatestTest  *logbook.WaterTestEntry `json:"latestTest,omitempty"`
	LatestSpec  *speceval.EntryReport   `json:"latestSpec,omitempty"`
}

// StatusService assembles snapshots from the log repositories.
type StatusService struct {
	tests    logbook.WaterTestRepository
	weekly   logbook.WeeklyEvaporationRepository
	settings SettingsProvider
	clock    Clock
	logger   *log.Logger
}

// StatusOption customizes the service.
type StatusOption func(*StatusService)

// WithClock assigns a clock.
func WithClock(clock Clock) StatusOption {
	return func(s *StatusService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) StatusOption {
	return func(s *StatusService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStatusService constructs a status service.
func NewStatusService(tests logbook.WaterTestRepository, weekly logbook.WeeklyEvaporationRepository, provider SettingsProvider, opts ...StatusOption) (*StatusService, error) {
	if tests == nil || weekly == nil || provider == nil {
		return nil, errors.New("dashboard: nil dependency")
	}
	service := &StatusService{
		tests:    tests,
		weekly:   weekly,
		settings: provider,
		clock:    systemClock{},
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Snapshot derives the dashboard state as of at. A zero at resolves against
// the current wall clock; a non-zero at drives the simulated-date diagnostic
// view without touching stored data.
func (s *StatusService) Snapshot(ctx context.Context, at time.Time) (*Snapshot, error) {
	if s == nil {
		return nil, errors.New("dashboard: nil service")
	}
	started := s.clock.Now()
	snapshot, err := s.snapshot(ctx, at, started)
	if err != nil {
		metrics.ObserveStatusResolution(metrics.ResultError, s.clock.Now().Sub(started))
		return nil, err
	}
	metrics.ObserveStatusResolution(metrics.ResultSuccess, s.clock.Now().Sub(started))
	return snapshot, nil
}

func (s *StatusService) snapshot(ctx context.Context, at, generated time.Time) (*Snapshot, error) {
	now := at
	if now.IsZero() {
		now = generated
	}

	today := now.Format(logbook.DateLayout)
	todaysTests, err := s.tests.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	weekStart := tasks.WeekStart(now).Format(logbook.DateLayout)
	weeklyLogs, err := s.weekly.ListOnOrAfter(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		GeneratedAt: generated,
		ResolvedAt:  now,
		Tasks:       tasks.Resolve(now, todaysTests, weeklyLogs),
	}

	latest, err := s.tests.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		params, err := s.settings.Current(ctx)
		if err != nil {
			return nil, err
		}
		report := speceval.EvaluateEntry(latest, params)
		snapshot.LatestTest = latest
		snapshot.LatestSpec = &report

		// Gauges reflect real time only, never a simulated instant.
		if at.IsZero() {
			metrics.SetLatestOutOfSpec(report.OutOfSpecCount)
		}
	}
	if at.IsZero() {
		publishTaskGauges(snapshot.Tasks)
	}
	return snapshot, nil
}

var allTaskStates = []string{
	string(tasks.StateCompleted),
	string(tasks.StatePending),
	string(tasks.StateDueSoon),
}

func publishTaskGauges(overview tasks.Overview) {
	metrics.SetTaskState("daily_water_test", string(overview.DailyWaterTest.State), allTaskStates)
	metrics.SetTaskState("daily_blowdown", string(overview.DailyBlowdown.State), allTaskStates)
	metrics.SetTaskState("weekly_evaporation", string(overview.WeeklyEvaporation.State), allTaskStates)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
