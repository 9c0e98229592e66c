// Package postgres implements the logbook repositories over database/sql.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	logbook "boilerlog/internal/logbook/domain"
)

const defaultEntriesTable = "water_test_entries"

const entryColumns = `id, entry_date, entry_time, readings, left_sight_glass, right_sight_glass,
	bottom_blowdown, tested_by_user_id, boiler_name, equipment, consumables, comment_text`

// WaterTestRepository is a Postgres implementation for water test entries.
type WaterTestRepository struct {
	db    *sql.DB
	table string
}

// EntryOption configures the repository.
type EntryOption func(*WaterTestRepository)

// WithEntriesTable overrides the default table name.
func WithEntriesTable(table string) EntryOption {
	return func(repo *WaterTestRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewWaterTestRepository constructs a repository with the default table name.
func NewWaterTestRepository(db *sql.DB, opts ...EntryOption) *WaterTestRepository {
	repo := &WaterTestRepository{db: db, table: defaultEntriesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Append inserts one entry. Entries are immutable; there is no update path.
func (r *WaterTestRepository) Append(ctx context.Context, entry *logbook.WaterTestEntry) error {
	if r == nil || r.db == nil {
		return errors.New("water test repo: nil db")
	}
	if entry == nil || entry.ID == "" {
		return logbook.ErrInvalidEntry
	}

	readings, err := marshalMap(entry.Readings)
	if err != nil {
		return err
	}
	equipment, err := marshalMap(entry.Equipment)
	if err != nil {
		return err
	}
	consumables, err := marshalMap(entry.Consumables)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, r.table, entryColumns)

	_, err = r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Date,
		entry.Time,
		readings,
		entry.LeftSightGlass,
		entry.RightSightGlass,
		entry.BottomBlowdown,
		entry.TestedByUserID,
		entry.BoilerName,
		equipment,
		consumables,
		entry.CommentText,
	)
	return err
}

// ListRecent returns the most recent limit entries in ascending order.
func (r *WaterTestRepository) ListRecent(ctx context.Context, limit int) ([]logbook.WaterTestEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("water test repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s FROM (
	SELECT %s FROM %s ORDER BY entry_date DESC, entry_time DESC LIMIT $1
) recent ORDER BY entry_date ASC, entry_time ASC`, entryColumns, entryColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByDate returns all entries recorded on a YYYY-MM-DD date.
func (r *WaterTestRepository) ListByDate(ctx context.Context, date string) ([]logbook.WaterTestEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("water test repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s FROM %s WHERE entry_date = $1 ORDER BY entry_time ASC`, entryColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListBetween returns entries within the inclusive date bounds; empty bounds
// leave that side open. Lexicographic comparison is correct for YYYY-MM-DD.
func (r *WaterTestRepository) ListBetween(ctx context.Context, fromDate, toDate string) ([]logbook.WaterTestEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("water test repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s FROM %s
WHERE ($1 = '' OR entry_date >= $1) AND ($2 = '' OR entry_date <= $2)
ORDER BY entry_date ASC, entry_time ASC`, entryColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Latest returns the newest entry, or nil when the log is empty.
func (r *WaterTestRepository) Latest(ctx context.Context) (*logbook.WaterTestEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("water test repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s FROM %s ORDER BY entry_date DESC, entry_time DESC LIMIT 1`, entryColumns, r.table)

	row := r.db.QueryRowContext(ctx, query)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*logbook.WaterTestEntry, error) {
	var (
		entry       logbook.WaterTestEntry
		readings    []byte
		equipment   []byte
		consumables []byte
	)
	if err := row.Scan(
		&entry.ID,
		&entry.Date,
		&entry.Time,
		&readings,
		&entry.LeftSightGlass,
		&entry.RightSightGlass,
		&entry.BottomBlowdown,
		&entry.TestedByUserID,
		&entry.BoilerName,
		&equipment,
		&consumables,
		&entry.CommentText,
	); err != nil {
		return nil, err
	}
	if err := unmarshalMap(readings, &entry.Readings); err != nil {
		return nil, err
	}
	if err := unmarshalMap(equipment, &entry.Equipment); err != nil {
		return nil, err
	}
	if err := unmarshalMap(consumables, &entry.Consumables); err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]logbook.WaterTestEntry, error) {
	var out []logbook.WaterTestEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

func marshalMap[V any](m map[string]V) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func unmarshalMap[V any](data []byte, target *map[string]V) error {
	if len(data) == 0 {
		return nil
	}
	var decoded map[string]V
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if len(decoded) > 0 {
		*target = decoded
	}
	return nil
}
