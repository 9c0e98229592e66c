package logbook

import "context"

// WaterTestRepository persists water test entries. The collection is
// append-only; date-bounded reads return ascending (date, time) order.
type WaterTestRepository interface {
	Append(ctx context.Context, entry *WaterTestEntry) error
	// ListRecent returns the most recent limit entries in ascending order.
	ListRecent(ctx context.Context, limit int) ([]WaterTestEntry, error)
	// ListByDate returns all entries recorded on a YYYY-MM-DD date.
	ListByDate(ctx context.Context, date string) ([]WaterTestEntry, error)
	// ListBetween returns entries with fromDate <= date <= toDate. An empty
	// bound leaves that side open.
	ListBetween(ctx context.Context, fromDate, toDate string) ([]WaterTestEntry, error)
	// Latest returns the newest entry, or nil when the log is empty.
	Latest(ctx context.Context) (*WaterTestEntry, error)
}

// WeeklyEvaporationRepository persists weekly evaporation logs.
type WeeklyEvaporationRepository interface {
	Append(ctx context.Context, entry *WeeklyEvaporationLog) error
	// ListOnOrAfter returns logs with test date >= day (YYYY-MM-DD).
	ListOnOrAfter(ctx context.Context, day string) ([]WeeklyEvaporationLog, error)
	// List returns the most recent limit logs, newest first.
	List(ctx context.Context, limit int) ([]WeeklyEvaporationLog, error)
}

// CommentRepository persists comment logs.
type CommentRepository interface {
	Append(ctx context.Context, entry *CommentLog) error
	// ListRecent returns the most recent limit comments, newest first.
	ListRecent(ctx context.Context, limit int) ([]CommentLog, error)
}
