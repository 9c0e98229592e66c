// Package memory provides in-memory logbook repositories, used by tests and
// available as a storage-free mode for local experiments.
package memory

import (
	"context"
	"sort"
	"sync"

	logbook "boilerlog/internal/logbook/domain"
)

// WaterTestRepository is an in-memory append-only store of water tests.
type WaterTestRepository struct {
	mu      sync.RWMutex
	entries []logbook.WaterTestEntry
}

// NewWaterTestRepository constructs an empty repository.
func NewWaterTestRepository() *WaterTestRepository {
	return &WaterTestRepository{}
}

// Append stores a copy of the entry, keeping (date, time) ascending order.
func (r *WaterTestRepository) Append(ctx context.Context, entry *logbook.WaterTestEntry) error {
	_ = ctx
	if entry == nil {
		return logbook.ErrInvalidEntry
	}
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].Date != r.entries[j].Date {
			return r.entries[i].Date < r.entries[j].Date
		}
		return r.entries[i].Time < r.entries[j].Time
	})
	r.mu.Unlock()
	return nil
}

// ListRecent returns the last limit entries in ascending order.
func (r *WaterTestRepository) ListRecent(ctx context.Context, limit int) ([]logbook.WaterTestEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	start := 0
	if limit > 0 && len(r.entries) > limit {
		start = len(r.entries) - limit
	}
	return append([]logbook.WaterTestEntry(nil), r.entries[start:]...), nil
}

// ListByDate returns all entries recorded on the given date.
func (r *WaterTestRepository) ListByDate(ctx context.Context, date string) ([]logbook.WaterTestEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []logbook.WaterTestEntry
	for _, entry := range r.entries {
		if entry.Date == date {
			out = append(out, entry)
		}
	}
	return out, nil
}

// ListBetween returns entries within the inclusive date bounds.
func (r *WaterTestRepository) ListBetween(ctx context.Context, fromDate, toDate string) ([]logbook.WaterTestEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []logbook.WaterTestEntry
	for _, entry := range r.entries {
		if fromDate != "" && entry.Date < fromDate {
			continue
		}
		if toDate != "" && entry.Date > toDate {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// Latest returns the newest entry, or nil when empty.
func (r *WaterTestRepository) Latest(ctx context.Context) (*logbook.WaterTestEntry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.entries) == 0 {
		return nil, nil
	}
	entry := r.entries[len(r.entries)-1]
	return &entry, nil
}

// WeeklyEvaporationRepository is an in-memory store of weekly logs.
type WeeklyEvaporationRepository struct {
	mu      sync.RWMutex
	entries []logbook.WeeklyEvaporationLog
}

// NewWeeklyEvaporationRepository constructs an empty repository.
func NewWeeklyEvaporationRepository() *WeeklyEvaporationRepository {
	return &WeeklyEvaporationRepository{}
}

// Append stores a copy of the log.
func (r *WeeklyEvaporationRepository) Append(ctx context.Context, entry *logbook.WeeklyEvaporationLog) error {
	_ = ctx
	if entry == nil {
		return logbook.ErrInvalidEntry
	}
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	return nil
}

// ListOnOrAfter returns logs with test date >= day.
func (r *WeeklyEvaporationRepository) ListOnOrAfter(ctx context.Context, day string) ([]logbook.WeeklyEvaporationLog, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []logbook.WeeklyEvaporationLog
	for _, entry := range r.entries {
		if entry.TestDate >= day {
			out = append(out, entry)
		}
	}
	return out, nil
}

// List returns the most recent limit logs, newest submission first.
func (r *WeeklyEvaporationRepository) List(ctx context.Context, limit int) ([]logbook.WeeklyEvaporationLog, error) {
	_ = ctx
	r.mu.RLock()
	out := append([]logbook.WeeklyEvaporationLog(nil), r.entries...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FormFinishedAt.After(out[j].FormFinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CommentRepository is an in-memory store of comment logs.
type CommentRepository struct {
	mu      sync.RWMutex
	entries []logbook.CommentLog
}

// NewCommentRepository constructs an empty repository.
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{}
}

// Append stores a copy of the comment.
func (r *CommentRepository) Append(ctx context.Context, entry *logbook.CommentLog) error {
	_ = ctx
	if entry == nil {
		return logbook.ErrInvalidEntry
	}
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	return nil
}

// ListRecent returns the most recent limit comments, newest first.
func (r *CommentRepository) ListRecent(ctx context.Context, limit int) ([]logbook.CommentLog, error) {
	_ = ctx
	r.mu.RLock()
	out := append([]logbook.CommentLog(nil), r.entries...)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
