package tasks

import (
	"testing"
	"time"

	logbook "boilerlog/internal/logbook/domain"
)

// Wednesday 2026-08-26 14:00 local.
var wednesday = time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)

func testEntry(date, clock string, blowdown bool) logbook.WaterTestEntry {
	entry := logbook.WaterTestEntry{Date: date, Time: clock}
	if blowdown {
		entry.LeftSightGlass = logbook.CheckCompleted
		entry.RightSightGlass = logbook.CheckCompleted
		entry.BottomBlowdown = logbook.CheckCompleted
	}
	return entry
}

func TestResolveDailyWaterTest(t *testing.T) {
	tests := []logbook.WaterTestEntry{
		testEntry("2026-08-25", "23:59", true), // yesterday
		testEntry("2026-08-26", "08:15", false),
		testEntry("2026-08-26", "13:05", false),
	}

	overview := Resolve(wednesday, tests, nil)

	if overview.DailyWaterTest.State != StateCompleted {
		t.Fatalf("water test state = %s, want %s", overview.DailyWaterTest.State, StateCompleted)
	}
	want := time.Date(2026, 8, 26, 13, 5, 0, 0, time.UTC)
	if overview.DailyWaterTest.LastCompletedAt == nil || !overview.DailyWaterTest.LastCompletedAt.Equal(want) {
		t.Fatalf("lastCompletedAt = %v, want %v", overview.DailyWaterTest.LastCompletedAt, want)
	}
}

func TestResolveDailyWaterTestPendingWhenOnlyOlderEntries(t *testing.T) {
	tests := []logbook.WaterTestEntry{
		testEntry("2026-08-25", "09:00", true),
	}
	overview := Resolve(wednesday, tests, nil)
	if overview.DailyWaterTest.State != StatePending {
		t.Fatalf("state = %s, want %s", overview.DailyWaterTest.State, StatePending)
	}
	if overview.DailyWaterTest.LastCompletedAt != nil {
		t.Fatalf("pending task must carry no completion timestamp")
	}
}

func TestResolveDailyBlowdownRequiresAllThreeChecks(t *testing.T) {
	partial := testEntry("2026-08-26", "10:00", false)
	partial.LeftSightGlass = logbook.CheckCompleted
	partial.RightSightGlass = logbook.CheckCompleted

	overview := Resolve(wednesday, []logbook.WaterTestEntry{partial}, nil)

	if overview.DailyWaterTest.State != StateCompleted {
		t.Fatalf("water test state = %s, want %s", overview.DailyWaterTest.State, StateCompleted)
	}
	if overview.DailyBlowdown.State != StatePending {
		t.Fatalf("blowdown state = %s, want %s", overview.DailyBlowdown.State, StatePending)
	}
}

func TestResolveDailyBlowdownPicksLatestQualifyingEntry(t *testing.T) {
	tests := []logbook.WaterTestEntry{
		testEntry("2026-08-26", "08:00", true),
		testEntry("2026-08-26", "12:00", false), // later, but no blowdown
	}
	overview := Resolve(wednesday, tests, nil)

	if overview.DailyBlowdown.State != StateCompleted {
		t.Fatalf("blowdown state = %s, want %s", overview.DailyBlowdown.State, StateCompleted)
	}
	want := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)
	if overview.DailyBlowdown.LastCompletedAt == nil || !overview.DailyBlowdown.LastCompletedAt.Equal(want) {
		t.Fatalf("blowdown lastCompletedAt = %v, want %v", overview.DailyBlowdown.LastCompletedAt, want)
	}
	// The plain water test task still sees the 12:00 entry.
	wantTest := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	if overview.DailyWaterTest.LastCompletedAt == nil || !overview.DailyWaterTest.LastCompletedAt.Equal(wantTest) {
		t.Fatalf("water test lastCompletedAt = %v, want %v", overview.DailyWaterTest.LastCompletedAt, wantTest)
	}
}

func TestResolveSkipsMalformedRecords(t *testing.T) {
	tests := []logbook.WaterTestEntry{
		{Date: "2026-08-26", Time: "25:99"},        // bad time
		{Date: "not-a-date", Time: "10:00"},        // bad date
		testEntry("2026-08-26", "09:00", true),     // good
	}
	weekly := []logbook.WeeklyEvaporationLog{
		{TestDate: "garbage", FormFinishedAt: wednesday},
	}

	overview := Resolve(wednesday, tests, weekly)

	if overview.DailyWaterTest.State != StateCompleted {
		t.Fatalf("water test state = %s, want %s", overview.DailyWaterTest.State, StateCompleted)
	}
	want := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	if overview.DailyWaterTest.LastCompletedAt == nil || !overview.DailyWaterTest.LastCompletedAt.Equal(want) {
		t.Fatalf("lastCompletedAt = %v, want %v", overview.DailyWaterTest.LastCompletedAt, want)
	}
	if overview.WeeklyEvaporation.State != StatePending {
		t.Fatalf("weekly state = %s, want %s", overview.WeeklyEvaporation.State, StatePending)
	}
}

func TestResolveWeeklyCompleted(t *testing.T) {
	earlier := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 25, 16, 30, 0, 0, time.UTC)
	weekly := []logbook.WeeklyEvaporationLog{
		{TestDate: "2026-08-24", FormFinishedAt: earlier},
		{TestDate: "2026-08-25", FormFinishedAt: later},
		{TestDate: "2026-08-20", FormFinishedAt: later.Add(time.Hour)}, // last week
	}

	overview := Resolve(wednesday, nil, weekly)

	if overview.WeeklyEvaporation.State != StateCompleted {
		t.Fatalf("weekly state = %s, want %s", overview.WeeklyEvaporation.State, StateCompleted)
	}
	if overview.WeeklyEvaporation.LastCompletedAt == nil || !overview.WeeklyEvaporation.LastCompletedAt.Equal(later) {
		t.Fatalf("weekly lastCompletedAt = %v, want %v", overview.WeeklyEvaporation.LastCompletedAt, later)
	}
}

func TestResolveWeeklyDueSoonWindow(t *testing.T) {
	cases := []struct {
		day  time.Time
		want State
	}{
		{time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), StatePending}, // Monday
		{time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC), StatePending}, // Wednesday
		{time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC), StateDueSoon}, // Thursday
		{time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC), StateDueSoon}, // Friday
		{time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), StateDueSoon}, // Saturday
		{time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), StateDueSoon}, // Sunday
	}
	for _, tc := range cases {
		overview := Resolve(tc.day, nil, nil)
		if overview.WeeklyEvaporation.State != tc.want {
			t.Fatalf("%s: weekly state = %s, want %s", tc.day.Weekday(), overview.WeeklyEvaporation.State, tc.want)
		}
	}
}

func TestResolveWeeklyLogFromLastWeekDoesNotSatisfy(t *testing.T) {
	weekly := []logbook.WeeklyEvaporationLog{
		{TestDate: "2026-08-23", FormFinishedAt: time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)}, // Sunday prior
	}
	overview := Resolve(wednesday, nil, weekly)
	if overview.WeeklyEvaporation.State != StatePending {
		t.Fatalf("weekly state = %s, want %s", overview.WeeklyEvaporation.State, StatePending)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		// Monday maps to itself at midnight.
		{time.Date(2026, 8, 24, 23, 0, 0, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		// Midweek.
		{wednesday, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week of the Monday six days prior.
		{time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := WeekStart(tc.now); !got.Equal(tc.want) {
			t.Fatalf("WeekStart(%s) = %v, want %v", tc.now.Weekday(), got, tc.want)
		}
	}
}

func TestResolveEmptyLogs(t *testing.T) {
	overview := Resolve(wednesday, nil, nil)
	if overview.DailyWaterTest.State != StatePending {
		t.Fatalf("water test state = %s, want %s", overview.DailyWaterTest.State, StatePending)
	}
	if overview.DailyBlowdown.State != StatePending {
		t.Fatalf("blowdown state = %s, want %s", overview.DailyBlowdown.State, StatePending)
	}
}
