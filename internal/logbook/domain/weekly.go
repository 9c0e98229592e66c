package logbook

import (
	"fmt"
	"time"
)

// WeeklyEvaporationLog records one weekly low-water safety test. Immutable
// once created. FormStartedAt/FormFinishedAt capture how long the form took
// to fill; FormFinishedAt doubles as the completion timestamp the task
// overview displays, since it reflects actual submission time rather than
// the declared test date.
type WeeklyEvaporationLog struct {
	ID                 string    `json:"id"`
	TestDate           string    `json:"testDate"` // YYYY-MM-DD, local
	TestTime           string    `json:"testTime"` // HH:mm, local
	LowWaterAlarmOK    bool      `json:"lowWaterAlarmOk"`
	LowLowWaterAlarmOK bool      `json:"lowLowWaterAlarmOk"`
	Completed          bool      `json:"completed"`
	OperatorID         string    `json:"operatorId,omitempty"`
	FormStartedAt      time.Time `json:"formStartedAt"`
	FormFinishedAt     time.Time `json:"formFinishedAt"`
}

// TestDay returns the declared test date at local midnight in loc.
func (l *WeeklyEvaporationLog) TestDay(loc *time.Location) (time.Time, error) {
	if l == nil {
		return time.Time{}, ErrInvalidEntry
	}
	return ParseDate(l.TestDate, loc)
}

// Validate checks a submission before it is appended.
func (l *WeeklyEvaporationLog) Validate() error {
	if l == nil {
		return ErrInvalidEntry
	}
	if _, err := time.Parse(DateLayout, l.TestDate); err != nil {
		return fmt.Errorf("%w: bad test date %q", ErrInvalidEntry, l.TestDate)
	}
	if _, err := time.Parse(TimeLayout, l.TestTime); err != nil {
		return fmt.Errorf("%w: bad test time %q", ErrInvalidEntry, l.TestTime)
	}
	if l.FormFinishedAt.IsZero() {
		return fmt.Errorf("%w: missing form finish timestamp", ErrInvalidEntry)
	}
	return nil
}
