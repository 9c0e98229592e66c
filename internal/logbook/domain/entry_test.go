package logbook

import (
	"errors"
	"testing"
	"time"
)

func TestWaterTestEntryValidate(t *testing.T) {
	valid := WaterTestEntry{Date: "2026-08-26", Time: "09:30"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	cases := []struct {
		name  string
		entry WaterTestEntry
	}{
		{"bad date", WaterTestEntry{Date: "26/08/2026", Time: "09:30"}},
		{"bad time", WaterTestEntry{Date: "2026-08-26", Time: "9:30 AM"}},
		{"empty date", WaterTestEntry{Time: "09:30"}},
		{"empty reading key", WaterTestEntry{Date: "2026-08-26", Time: "09:30", Readings: map[string]float64{" ": 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			if !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestBlowdownComplete(t *testing.T) {
	entry := WaterTestEntry{
		LeftSightGlass:  CheckCompleted,
		RightSightGlass: CheckCompleted,
		BottomBlowdown:  CheckCompleted,
	}
	if !entry.BlowdownComplete() {
		t.Fatalf("all three checks completed must report complete")
	}
	entry.BottomBlowdown = "Skipped"
	if entry.BlowdownComplete() {
		t.Fatalf("a skipped check must not report complete")
	}
}

func TestReadingDistinguishesMissingFromZero(t *testing.T) {
	entry := WaterTestEntry{Readings: map[string]float64{"feedWaterHardness": 0}}
	if value := entry.Reading("feedWaterHardness"); value == nil || *value != 0 {
		t.Fatalf("measured zero must round-trip, got %v", value)
	}
	if value := entry.Reading("sulphite"); value != nil {
		t.Fatalf("unmeasured parameter must be nil, got %v", *value)
	}
}

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("test", 3600)
	entry := WaterTestEntry{Date: "2026-08-26", Time: "09:30"}
	at, err := entry.Timestamp(loc)
	if err != nil {
		t.Fatalf("timestamp: %v", err)
	}
	want := time.Date(2026, 8, 26, 9, 30, 0, 0, loc)
	if !at.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", at, want)
	}

	bad := WaterTestEntry{Date: "2026-08-26", Time: "nope"}
	if _, err := bad.Timestamp(loc); err == nil {
		t.Fatalf("malformed time must error")
	}
}

func TestWeeklyEvaporationLogValidate(t *testing.T) {
	valid := WeeklyEvaporationLog{
		TestDate:       "2026-08-26",
		TestTime:       "10:00",
		FormFinishedAt: time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid log rejected: %v", err)
	}

	missingFinish := valid
	missingFinish.FormFinishedAt = time.Time{}
	if err := missingFinish.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("missing finish timestamp must be invalid, got %v", err)
	}

	badDate := valid
	badDate.TestDate = "garbage"
	if err := badDate.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("bad test date must be invalid, got %v", err)
	}
}

func TestCommentLogValidate(t *testing.T) {
	valid := CommentLog{Text: "replaced softener salt", Timestamp: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid comment rejected: %v", err)
	}
	empty := CommentLog{Timestamp: time.Now()}
	if err := empty.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("empty comment must be invalid, got %v", err)
	}
}
