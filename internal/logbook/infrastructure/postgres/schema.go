package postgres

import (
	"context"
	"database/sql"
	"errors"
)

// EnsureSchema creates the logbook tables when they do not exist yet. The
// store is a single-site database; there is no migration tooling beyond
// this bootstrap.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("logbook schema: nil db")
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS water_test_entries (
			id TEXT PRIMARY KEY,
			entry_date TEXT NOT NULL,
			entry_time TEXT NOT NULL,
			readings JSONB NOT NULL DEFAULT '{}',
			left_sight_glass TEXT NOT NULL DEFAULT '',
			right_sight_glass TEXT NOT NULL DEFAULT '',
			bottom_blowdown TEXT NOT NULL DEFAULT '',
			tested_by_user_id TEXT NOT NULL DEFAULT '',
			boiler_name TEXT NOT NULL DEFAULT '',
			equipment JSONB NOT NULL DEFAULT '{}',
			consumables JSONB NOT NULL DEFAULT '{}',
			comment_text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS water_test_entries_date_time
			ON water_test_entries (entry_date, entry_time)`,
		`CREATE TABLE IF NOT EXISTS weekly_evaporation_logs (
			id TEXT PRIMARY KEY,
			test_date TEXT NOT NULL,
			test_time TEXT NOT NULL,
			low_water_alarm_ok BOOLEAN NOT NULL DEFAULT FALSE,
			low_low_water_alarm_ok BOOLEAN NOT NULL DEFAULT FALSE,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			operator_id TEXT NOT NULL DEFAULT '',
			form_started_at TIMESTAMPTZ,
			form_finished_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS weekly_evaporation_logs_test_date
			ON weekly_evaporation_logs (test_date)`,
		`CREATE TABLE IF NOT EXISTS comment_logs (
			id TEXT PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL,
			body TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			actor TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			resource_type TEXT NOT NULL DEFAULT '',
			resource_id TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			payload_digest TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}
