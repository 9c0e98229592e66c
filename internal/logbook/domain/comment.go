package logbook

import (
	"fmt"
	"strings"
	"time"
)

// CategoryBreakdown flags a comment that records an equipment breakdown.
const CategoryBreakdown = "Breakdown"

// CommentLog is a timestamped free-text annotation. Display only; it never
// participates in status computation.
type CommentLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Category  string    `json:"category,omitempty"`
	UserID    string    `json:"userId,omitempty"`
}

// Validate checks a submission before it is appended.
func (c *CommentLog) Validate() error {
	if c == nil {
		return ErrInvalidEntry
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: empty comment text", ErrInvalidEntry)
	}
	return nil
}
