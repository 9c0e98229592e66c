// Package logbook holds the immutable log records operators submit: daily
// water tests, weekly evaporation safety checks and free-text comments.
package logbook

import (
	"fmt"
	"strings"
	"time"
)

// Layouts for the naive local date/time strings entries carry.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// CheckCompleted is the sentinel recorded when a blowdown check was done.
const CheckCompleted = "Completed"

// WaterTestEntry is one timestamped water-test record. Entries are created
// once at submission time and never edited or deleted.
//
// Readings is sparse: a parameter absent from the map was not measured this
// time, which is distinct from a measured zero. The set of keys in use has
// grown across form revisions, so nothing here enumerates them; evaluation
// iterates over the configured settings keys instead.
type WaterTestEntry struct {
	ID   string `json:"id"`
	Date string `json:"date"` // YYYY-MM-DD, local
	Time string `json:"time"` // HH:mm, 24-hour, local

	Readings map[string]float64 `json:"readings,omitempty"`

	// Blowdown checks. The daily blowdown task is satisfied only when all
	// three carry CheckCompleted.
	LeftSightGlass  string `json:"leftSightGlass,omitempty"`
	RightSightGlass string `json:"rightSightGlass,omitempty"`
	BottomBlowdown  string `json:"bottomBlowdown,omitempty"`

	// Descriptive payload, displayed but never evaluated.
	TestedByUserID string             `json:"testedByUserId,omitempty"`
	BoilerName     string             `json:"boilerName,omitempty"`
	Equipment      map[string]string  `json:"equipment,omitempty"`
	Consumables    map[string]float64 `json:"consumables,omitempty"`
	CommentText    string             `json:"commentText,omitempty"`
}

// Reading returns a pointer to the recorded value for a parameter key, or
// nil when the parameter was not measured.
func (e *WaterTestEntry) Reading(key string) *float64 {
	if e == nil || e.Readings == nil {
		return nil
	}
	value, ok := e.Readings[key]
	if !ok {
		return nil
	}
	return &value
}

// BlowdownComplete reports whether all three blowdown checks were done.
func (e *WaterTestEntry) BlowdownComplete() bool {
	if e == nil {
		return false
	}
	return e.LeftSightGlass == CheckCompleted &&
		e.RightSightGlass == CheckCompleted &&
		e.BottomBlowdown == CheckCompleted
}

// Timestamp combines Date and Time into an instant in loc. Returns an error
// for malformed strings; callers skip such records rather than fail.
func (e *WaterTestEntry) Timestamp(loc *time.Location) (time.Time, error) {
	if e == nil {
		return time.Time{}, ErrInvalidEntry
	}
	return ParseDateTime(e.Date, e.Time, loc)
}

// Validate checks a submission before it is appended.
func (e *WaterTestEntry) Validate() error {
	if e == nil {
		return ErrInvalidEntry
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidEntry, e.Date)
	}
	if _, err := time.Parse(TimeLayout, e.Time); err != nil {
		return fmt.Errorf("%w: bad time %q", ErrInvalidEntry, e.Time)
	}
	for key := range e.Readings {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: empty reading key", ErrInvalidEntry)
		}
	}
	return nil
}

// ParseDateTime combines a YYYY-MM-DD date and HH:mm time in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout+"T"+TimeLayout, date+"T"+clock, loc)
}

// ParseDate parses a YYYY-MM-DD date at local midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, date, loc)
}
