// Package postgres persists the settings blob as a single versioned row.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	settings "boilerlog/internal/settings/domain"
)

const (
	defaultSettingsTable = "settings"
	settingsRowID        = "test-parameters"
)

// Repository stores the settings blob in one JSONB row guarded by an
// optimistic version column.
type Repository struct {
	db    *sql.DB
	table string
}

// Option configures the repository.
type Option func(*Repository)

// WithTable overrides the default table name.
func WithTable(table string) Option {
	return func(repo *Repository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewRepository constructs a repository with the default table name.
func NewRepository(db *sql.DB, opts ...Option) *Repository {
	repo := &Repository{db: db, table: defaultSettingsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Load returns the stored blob, or nil when nothing was ever saved.
func (r *Repository) Load(ctx context.Context) (*settings.TestParameters, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("settings repo: nil db")
	}
	query := fmt.Sprintf(`SELECT version, doc, updated_at FROM %s WHERE id = $1`, r.table)

	var (
		version   int
		doc       []byte
		updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, settingsRowID).Scan(&version, &doc, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var params settings.TestParameters
	if err := json.Unmarshal(doc, &params); err != nil {
		return nil, err
	}
	params.Version = version
	params.UpdatedAt = updatedAt
	return &params, nil
}

// Save replaces the blob wholesale. The incoming version must equal the
// stored one; the stored version increments on success. Saving version 0
// against an empty table performs the first insert.
func (r *Repository) Save(ctx context.Context, params *settings.TestParameters) (*settings.TestParameters, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("settings repo: nil db")
	}
	if params == nil {
		return nil, errors.New("settings repo: nil parameters")
	}

	saved := params.Clone()
	saved.Version = params.Version + 1
	saved.UpdatedAt = time.Now().UTC()

	doc, err := json.Marshal(saved)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, version, doc, updated_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET version = $2, doc = $3, updated_at = $4
WHERE %s.version = $5`, r.table, r.table)

	result, err := r.db.ExecContext(ctx, query, settingsRowID, saved.Version, doc, saved.UpdatedAt, params.Version)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, settings.ErrVersionConflict
	}
	return saved, nil
}
