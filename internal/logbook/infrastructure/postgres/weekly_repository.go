package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	logbook "boilerlog/internal/logbook/domain"
)

const defaultWeeklyTable = "weekly_evaporation_logs"

const weeklyColumns = `id, test_date, test_time, low_water_alarm_ok, low_low_water_alarm_ok,
	completed, operator_id, form_started_at, form_finished_at`

// WeeklyEvaporationRepository is a Postgres implementation for weekly
// evaporation safety test logs.
type WeeklyEvaporationRepository struct {
	db    *sql.DB
	table string
}

// WeeklyOption configures the repository.
type WeeklyOption func(*WeeklyEvaporationRepository)

// WithWeeklyTable overrides the default table name.
func WithWeeklyTable(table string) WeeklyOption {
	return func(repo *WeeklyEvaporationRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewWeeklyEvaporationRepository constructs a repository with the default table name.
func NewWeeklyEvaporationRepository(db *sql.DB, opts ...WeeklyOption) *WeeklyEvaporationRepository {
	repo := &WeeklyEvaporationRepository{db: db, table: defaultWeeklyTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Append inserts one weekly evaporation log.
func (r *WeeklyEvaporationRepository) Append(ctx context.Context, entry *logbook.WeeklyEvaporationLog) error {
	if r == nil || r.db == nil {
		return errors.New("weekly evaporation repo: nil db")
	}
	if entry == nil || entry.ID == "" {
		return logbook.ErrInvalidEntry
	}

	started := sql.NullTime{Time: entry.FormStartedAt, Valid: !entry.FormStartedAt.IsZero()}

	query := fmt.Sprintf(`
INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, r.table, weeklyColumns)

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.TestDate,
		entry.TestTime,
		entry.LowWaterAlarmOK,
		entry.LowLowWaterAlarmOK,
		entry.Completed,
		entry.OperatorID,
		started,
		entry.FormFinishedAt,
	)
	return err
}

// ListOnOrAfter returns logs whose test date is on or after a YYYY-MM-DD day,
// ordered by form completion time ascending.
func (r *WeeklyEvaporationRepository) ListOnOrAfter(ctx context.Context, day string) ([]logbook.WeeklyEvaporationLog, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("weekly evaporation repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s FROM %s WHERE test_date >= $1 ORDER BY form_finished_at ASC`, weeklyColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWeeklyLogs(rows)
}

// List returns the newest limit logs, newest first.
func (r *WeeklyEvaporationRepository) List(ctx context.Context, limit int) ([]logbook.WeeklyEvaporationLog, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("weekly evaporation repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s FROM %s ORDER BY form_finished_at DESC LIMIT $1`, weeklyColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWeeklyLogs(rows)
}

func scanWeeklyLogs(rows *sql.Rows) ([]logbook.WeeklyEvaporationLog, error) {
	var out []logbook.WeeklyEvaporationLog
	for rows.Next() {
		var (
			entry   logbook.WeeklyEvaporationLog
			started sql.NullTime
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.TestDate,
			&entry.TestTime,
			&entry.LowWaterAlarmOK,
			&entry.LowLowWaterAlarmOK,
			&entry.Completed,
			&entry.OperatorID,
			&started,
			&entry.FormFinishedAt,
		); err != nil {
			return nil, err
		}
		if started.Valid {
			entry.FormStartedAt = started.Time
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
