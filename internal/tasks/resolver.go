// Package tasks derives the completion status of the recurring operational
// obligations (daily water test, daily blowdown, weekly evaporation check)
// from the raw log records and a reference instant.
//
// Status is never stored: every call recomputes from scratch, so a task
// flips back to pending at the start of a new day or week without any
// invalidation bookkeeping. The reference instant is injectable to support
// the simulated-date diagnostic mode and deterministic tests; calendar
// arithmetic happens in the instant's location.
package tasks

import (
	"time"

	logbook "boilerlog/internal/logbook/domain"
)

// State is the derived state of one recurring task.
type State string

const (
	StateCompleted State = "completed"
	StatePending   State = "pending"
	// StateDueSoon warns that the weekly window is closing without a
	// qualifying completion. Daily tasks never reach it.
	StateDueSoon State = "due-soon"
)

// Status is the derived status of one task as of the reference instant.
type Status struct {
	State           State      `json:"state"`
	LastCompletedAt *time.Time `json:"lastCompletedAt"`
}

// Overview carries the status of every recurring task.
type Overview struct {
	DailyWaterTest    Status `json:"dailyWaterTest"`
	DailyBlowdown     Status `json:"dailyBlowdown"`
	WeeklyEvaporation Status `json:"weeklyEvaporation"`
}

// Resolve derives the task overview as of now. Records with malformed date
// or time strings are excluded from match consideration; a single bad record
// never fails the resolution.
func Resolve(now time.Time, tests []logbook.WaterTestEntry, weekly []logbook.WeeklyEvaporationLog) Overview {
	return Overview{
		DailyWaterTest:    resolveDaily(now, tests, false),
		DailyBlowdown:     resolveDaily(now, tests, true),
		WeeklyEvaporation: resolveWeekly(now, weekly),
	}
}

// resolveDaily matches entries whose date equals today's calendar date in
// now's location. For the blowdown variant the matched entry must also carry
// all three blowdown checks completed; a water test without them leaves the
// blowdown task pending even though a test happened today.
func resolveDaily(now time.Time, tests []logbook.WaterTestEntry, requireBlowdown bool) Status {
	today := now.Format(logbook.DateLayout)

	var latest *logbook.WaterTestEntry
	for i := range tests {
		entry := &tests[i]
		if entry.Date != today {
			continue
		}
		if requireBlowdown && !entry.BlowdownComplete() {
			continue
		}
		if _, err := entry.Timestamp(now.Location()); err != nil {
			continue
		}
		// Lexicographic HH:mm comparison is correct for same-day 24-hour
		// times; ties pick either entry.
		if latest == nil || entry.Time > latest.Time {
			latest = entry
		}
	}

	if latest == nil {
		return Status{State: StatePending}
	}
	at, _ := latest.Timestamp(now.Location())
	return Status{State: StateCompleted, LastCompletedAt: &at}
}

// resolveWeekly checks for a weekly evaporation log dated on or after the
// Monday of the current week. When none exists the task is due-soon in the
// back half of the week (Thu through Sun), pending otherwise.
func resolveWeekly(now time.Time, weekly []logbook.WeeklyEvaporationLog) Status {
	start := WeekStart(now)

	var match *logbook.WeeklyEvaporationLog
	for i := range weekly {
		entry := &weekly[i]
		day, err := entry.TestDay(now.Location())
		if err != nil {
			continue
		}
		if day.Before(start) {
			continue
		}
		if match == nil || entry.FormFinishedAt.After(match.FormFinishedAt) {
			match = entry
		}
	}

	if match != nil {
		at := match.FormFinishedAt
		return Status{State: StateCompleted, LastCompletedAt: &at}
	}

	switch now.Weekday() {
	case time.Thursday, time.Friday, time.Saturday, time.Sunday:
		return Status{State: StateDueSoon}
	default:
		return Status{State: StatePending}
	}
}

// WeekStart returns Monday 00:00:00 of now's week in now's location. A
// Sunday belongs to the week of the Monday six days prior.
func WeekStart(now time.Time) time.Time {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	day := now.AddDate(0, 0, -daysSinceMonday)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}
