package secrets

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mooddiary/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet_NoSecretYet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+pin\s+FROM\s+secrets`).
		WithArgs("u-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSet_Upserts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+secrets.*ON\s+CONFLICT\s*\(user_id\)`).
		WithArgs("u-1", "1234").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Set(context.Background(), "u-1", "1234"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	mock.ExpectQuery(`SELECT\s+pin\s+FROM\s+secrets`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"pin"}).AddRow("1234"))

	pin, err := repo.Get(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if pin != "1234" {
		t.Fatalf("unexpected pin: %q", pin)
	}
}
