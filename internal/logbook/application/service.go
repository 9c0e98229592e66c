package application

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	logbook "boilerlog/internal/logbook/domain"
	"boilerlog/internal/observability/metrics"
)

const (
	defaultRecentLimit  = 10
	defaultCommentLimit = 3
	defaultHistoryPage  = 15
	maxHistoryPageSize  = 200
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Service handles submission and retrieval of logbook records.
type Service struct {
	tests    logbook.WaterTestRepository
	weekly   logbook.WeeklyEvaporationRepository
	comments logbook.CommentRepository
	clock    Clock
}

// ServiceOption customizes the service.
type ServiceOption func(*Service)

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService constructs a logbook service.
func NewService(tests logbook.WaterTestRepository, weekly logbook.WeeklyEvaporationRepository, comments logbook.CommentRepository, opts ...ServiceOption) (*Service, error) {
	if tests == nil || weekly == nil || comments == nil {
		return nil, errors.New("logbook: nil repository")
	}
	service := &Service{
		tests:    tests,
		weekly:   weekly,
		comments: comments,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// AddWaterTest validates and appends one water test entry. Date and time
// default to the current local wall clock when omitted; the id is assigned
// here and the entry is immutable afterwards.
func (s *Service) AddWaterTest(ctx context.Context, entry *logbook.WaterTestEntry) (*logbook.WaterTestEntry, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if entry == nil {
		return nil, logbook.ErrInvalidEntry
	}
	now := s.clock.Now()
	if entry.Date == "" {
		entry.Date = now.Format(logbook.DateLayout)
	}
	if entry.Time == "" {
		entry.Time = now.Format(logbook.TimeLayout)
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.ID = buildRecordID("wt", entry.Date+"|"+entry.Time, now)
	if err := s.tests.Append(ctx, entry); err != nil {
		return nil, err
	}
	metrics.IncEntrySubmitted("watertest")
	return entry, nil
}

// AddWeeklyEvaporation validates and appends one weekly evaporation log.
func (s *Service) AddWeeklyEvaporation(ctx context.Context, entry *logbook.WeeklyEvaporationLog) (*logbook.WeeklyEvaporationLog, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if entry == nil {
		return nil, logbook.ErrInvalidEntry
	}
	now := s.clock.Now()
	if entry.FormFinishedAt.IsZero() {
		entry.FormFinishedAt = now.UTC()
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.ID = buildRecordID("we", entry.TestDate+"|"+entry.TestTime, now)
	if err := s.weekly.Append(ctx, entry); err != nil {
		return nil, err
	}
	metrics.IncEntrySubmitted("weekly-evaporation")
	return entry, nil
}

// AddComment validates and appends one comment log.
func (s *Service) AddComment(ctx context.Context, entry *logbook.CommentLog) (*logbook.CommentLog, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if entry == nil {
		return nil, logbook.ErrInvalidEntry
	}
	now := s.clock.Now()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now.UTC()
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.ID = buildRecordID("cl", entry.Text, now)
	if err := s.comments.Append(ctx, entry); err != nil {
		return nil, err
	}
	metrics.IncEntrySubmitted("comment")
	return entry, nil
}

// RecentTests returns the most recent water tests in ascending order.
func (s *Service) RecentTests(ctx context.Context, limit int) ([]logbook.WaterTestEntry, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.tests.ListRecent(ctx, limit)
}

// LatestTest returns the newest water test, or nil when none exist.
func (s *Service) LatestTest(ctx context.Context) (*logbook.WaterTestEntry, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	return s.tests.Latest(ctx)
}

// RecentComments returns the newest comments first.
func (s *Service) RecentComments(ctx context.Context, limit int) ([]logbook.CommentLog, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if limit <= 0 {
		limit = defaultCommentLimit
	}
	return s.comments.ListRecent(ctx, limit)
}

// WeeklyLogs returns recent weekly evaporation logs, newest first.
func (s *Service) WeeklyLogs(ctx context.Context, limit int) ([]logbook.WeeklyEvaporationLog, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.weekly.List(ctx, limit)
}

// RangeBound filters one parameter by an optional min/max in history queries.
type RangeBound struct {
	Min *float64
	Max *float64
}

// HistoryFilter selects entries for the full-history view.
type HistoryFilter struct {
	StartDate string
	EndDate   string
	Readings  map[string]RangeBound
	Page      int
	PageSize  int
}

// HistoryPage is one page of filtered history, newest first.
type HistoryPage struct {
	Entries  []logbook.WaterTestEntry `json:"entries"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
}

// History returns a filtered, paginated slice of the full water test log.
// Reading bounds treat an absent reading as out of bounds, matching how the
// history screen has always filtered.
func (s *Service) History(ctx context.Context, filter HistoryFilter) (HistoryPage, error) {
	if s == nil {
		return HistoryPage{}, errors.New("logbook: nil service")
	}
	entries, err := s.tests.ListBetween(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return HistoryPage{}, err
	}

	filtered := entries[:0:0]
	for _, entry := range entries {
		if matchesBounds(&entry, filter.Readings) {
			filtered = append(filtered, entry)
		}
	}
	// Newest first for display.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date > filtered[j].Date
		}
		return filtered[i].Time > filtered[j].Time
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = defaultHistoryPage
	}
	if size > maxHistoryPageSize {
		size = maxHistoryPageSize
	}
	start := (page - 1) * size
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	return HistoryPage{
		Entries:  filtered[start:end],
		Total:    len(filtered),
		Page:     page,
		PageSize: size,
	}, nil
}

// Export returns every entry in an optional date range, oldest first, with
// no pagination cap. Used by the file exports.
func (s *Service) Export(ctx context.Context, fromDate, toDate string) ([]logbook.WaterTestEntry, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	return s.tests.ListBetween(ctx, fromDate, toDate)
}

// SeriesPoint is one chart sample for a single parameter.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Series returns the chart series for one parameter over an optional date
// range. Entries that never measured the parameter are skipped.
func (s *Service) Series(ctx context.Context, parameter, fromDate, toDate string) ([]SeriesPoint, error) {
	if s == nil {
		return nil, errors.New("logbook: nil service")
	}
	if parameter == "" {
		return nil, errors.New("logbook: parameter required")
	}
	entries, err := s.tests.ListBetween(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	var points []SeriesPoint
	for i := range entries {
		if value := entries[i].Reading(parameter); value != nil {
			points = append(points, SeriesPoint{Date: entries[i].Date, Time: entries[i].Time, Value: *value})
		}
	}
	return points, nil
}

func matchesBounds(entry *logbook.WaterTestEntry, bounds map[string]RangeBound) bool {
	for key, bound := range bounds {
		value := entry.Reading(key)
		if bound.Min != nil && (value == nil || *value < *bound.Min) {
			return false
		}
		if bound.Max != nil && (value == nil || *value > *bound.Max) {
			return false
		}
	}
	return true
}

func buildRecordID(prefix, seed string, at time.Time) string {
	sum := sha1.Sum([]byte(seed + "|" + at.Format(time.RFC3339Nano)))
	return prefix + "-" + hex.EncodeToString(sum[:8])
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
