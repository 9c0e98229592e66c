package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	logbook "boilerlog/internal/logbook/domain"
)

const defaultCommentsTable = "comment_logs"

// CommentRepository is a Postgres implementation for operator comment logs.
type CommentRepository struct {
	db    *sql.DB
	table string
}

// CommentOption configures the repository.
type CommentOption func(*CommentRepository)

// WithCommentsTable overrides the default table name.
func WithCommentsTable(table string) CommentOption {
	return func(repo *CommentRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewCommentRepository constructs a repository with the default table name.
func NewCommentRepository(db *sql.DB, opts ...CommentOption) *CommentRepository {
	repo := &CommentRepository{db: db, table: defaultCommentsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Append inserts one comment log.
func (r *CommentRepository) Append(ctx context.Context, entry *logbook.CommentLog) error {
	if r == nil || r.db == nil {
		return errors.New("comment repo: nil db")
	}
	if entry == nil || entry.ID == "" {
		return logbook.ErrInvalidEntry
	}
	query := fmt.Sprintf(`
INSERT INTO %s (id, ts, body, category, user_id) VALUES ($1, $2, $3, $4, $5)`, r.table)

	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.Timestamp, entry.Text, entry.Category, entry.UserID)
	return err
}

// ListRecent returns the newest limit comments, newest first.
func (r *CommentRepository) ListRecent(ctx context.Context, limit int) ([]logbook.CommentLog, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("comment repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, ts, body, category, user_id FROM %s ORDER BY ts DESC LIMIT $1`, r.table)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []logbook.CommentLog
	for rows.Next() {
		var entry logbook.CommentLog
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Text, &entry.Category, &entry.UserID); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
