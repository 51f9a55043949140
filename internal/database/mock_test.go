package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/nao1215/rivalscope/internal/model"
)

var errDBDown = errors.New("connection refused")

func newMockStore(t *testing.T, driver string) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewStore(sqlx.NewDb(mockDB, driver)), mock
}

func TestUpsertCompetitorInsertFailure(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t, "sqlite")

	mock.ExpectExec("INSERT INTO competitors").
		WithArgs(sqlmock.AnyArg(), "alice", "example.com", formatTime(baseTime)).
		WillReturnError(errDBDown)

	_, err := s.UpsertCompetitor(context.Background(), "alice", "example.com", baseTime)
	if !errors.Is(err, errDBDown) {
		t.Errorf("expected wrapped driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t, "postgres")

	rows := sqlmock.NewRows([]string{"id", "owner_id", "type", "text", "created_at"}).
		AddRow("s1", "alice", model.SuggestionTypeSEO, "Enable HTTPS.", "2026-03-01 09:00:00.000000000")
	mock.ExpectQuery(`FROM suggestions\s+WHERE owner_id = \$1 AND type = \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs("alice", model.SuggestionTypeSEO, DefaultSuggestionListLimit).
		WillReturnRows(rows)

	list, err := s.ListSuggestions(context.Background(), "alice", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Text != "Enable HTTPS." {
		t.Errorf("unexpected suggestions: %+v", list)
	}
	if !list[0].CreatedAt.Equal(baseTime) {
		t.Errorf("expected %v, got %v", baseTime, list[0].CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLatestMetricsQueryFailure(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t, "sqlite")

	mock.ExpectQuery("FROM seo_metrics").WithArgs("c1").WillReturnError(errDBDown)

	_, err := s.LatestMetrics(context.Background(), "c1")
	if !errors.Is(err, errDBDown) {
		t.Errorf("expected driver error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a driver failure must not look like a missing row")
	}
}

func TestMarkAlertReadNoRows(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t, "sqlite")

	mock.ExpectExec("UPDATE alerts SET is_read").
		WithArgs(true, "a1", "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.MarkAlertRead(context.Background(), "alice", "a1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCompetitorRollsBack(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t, "sqlite")

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM rankings").WithArgs("c1", "alice").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM content_snapshots").WithArgs("c1", "alice").WillReturnError(errDBDown)
	mock.ExpectRollback()

	err := s.DeleteCompetitor(context.Background(), "alice", "c1")
	if !errors.Is(err, errDBDown) {
		t.Errorf("expected driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInsertAlertFailure(t *testing.T) {
	t.Parallel()
	s, mock := newMockStore(t, "sqlite")

	mock.ExpectExec("INSERT INTO alerts").WillReturnError(errDBDown)

	err := s.InsertAlert(context.Background(), &model.Alert{ID: "a1", Owner: "alice", Message: "m", CreatedAt: baseTime})
	if !errors.Is(err, errDBDown) {
		t.Errorf("expected driver error, got %v", err)
	}
}
