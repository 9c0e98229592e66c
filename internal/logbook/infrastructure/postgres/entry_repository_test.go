package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	logbook "boilerlog/internal/logbook/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return db, mock
}

func TestWaterTestRepositoryAppend(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewWaterTestRepository(db)

	entry := &logbook.WaterTestEntry{
		ID:       "wt-abc",
		Date:     "2026-08-26",
		Time:     "09:30",
		Readings: map[string]float64{"sulphite": 35},

		LeftSightGlass: logbook.CheckCompleted,
		TestedByUserID: "1",
	}

	mock.ExpectExec(`INSERT INTO water_test_entries`).
		WithArgs(
			"wt-abc", "2026-08-26", "09:30", []byte(`{"sulphite":35}`),
			logbook.CheckCompleted, "", "", "1", "",
			[]byte(`{}`), []byte(`{}`), "",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWaterTestRepositoryAppendRejectsMissingID(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewWaterTestRepository(db)

	if err := repo.Append(context.Background(), &logbook.WaterTestEntry{}); err == nil {
		t.Fatalf("entry without id must be rejected")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func entryRowColumns() []string {
	return []string{
		"id", "entry_date", "entry_time", "readings", "left_sight_glass", "right_sight_glass",
		"bottom_blowdown", "tested_by_user_id", "boiler_name", "equipment", "consumables", "comment_text",
	}
}

func TestWaterTestRepositoryLatest(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewWaterTestRepository(db)

	rows := sqlmock.NewRows(entryRowColumns()).
		AddRow("wt-abc", "2026-08-26", "09:30", []byte(`{"sulphite":35}`), "Completed", "", "", "1", "", []byte(`{}`), []byte(`{}`), "steady")
	mock.ExpectQuery(`ORDER BY entry_date DESC, entry_time DESC LIMIT 1`).WillReturnRows(rows)

	entry, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if entry == nil || entry.ID != "wt-abc" {
		t.Fatalf("entry = %+v, want wt-abc", entry)
	}
	if value := entry.Reading("sulphite"); value == nil || *value != 35 {
		t.Fatalf("readings not decoded: %+v", entry.Readings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWaterTestRepositoryLatestEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewWaterTestRepository(db)

	mock.ExpectQuery(`ORDER BY entry_date DESC, entry_time DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(entryRowColumns()))

	entry, err := repo.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if entry != nil {
		t.Fatalf("empty table must yield nil, got %+v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWaterTestRepositoryListBetween(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewWaterTestRepository(db)

	rows := sqlmock.NewRows(entryRowColumns()).
		AddRow("wt-1", "2026-08-25", "09:00", []byte(`{}`), "", "", "", "", "", []byte(`{}`), []byte(`{}`), "").
		AddRow("wt-2", "2026-08-26", "09:00", []byte(`{}`), "", "", "", "", "", []byte(`{}`), []byte(`{}`), "")
	mock.ExpectQuery(`ORDER BY entry_date ASC, entry_time ASC`).
		WithArgs("2026-08-25", "2026-08-26").
		WillReturnRows(rows)

	list, err := repo.ListBetween(context.Background(), "2026-08-25", "2026-08-26")
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	if len(list) != 2 || list[0].ID != "wt-1" || list[1].ID != "wt-2" {
		t.Fatalf("unexpected list %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
