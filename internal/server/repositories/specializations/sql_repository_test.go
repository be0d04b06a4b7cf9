package specializations

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

const selectQ = `(?s)^SELECT\s+id,\s*title,\s*categories_json\s+FROM\s+specializations\s+WHERE\s+id\s*=\s*\$1$`

func TestFindByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).
		WithArgs("backend").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "categories_json"}).
			AddRow("backend", "Backend engineer", `["GO","SQL"]`))

	got, err := repo.FindByID(context.Background(), "backend")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.Title != "Backend engineer" || len(got.ProblemCategories) != 2 || got.ProblemCategories[1] != "SQL" {
		t.Fatalf("unexpected specialization: %+v", got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestFindByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("x").WillReturnError(errors.New("boom"))

	_, err := repo.FindByID(context.Background(), "x")
	if err == nil || errors.Is(err, common.ErrorNotFound) || err.Error() != "db error: boom" {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+specializations.*ON\s+CONFLICT\s*\(id\)\s*DO\s+UPDATE`).
		WithArgs("backend", "Backend engineer", `["GO"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.Specialization{
		ID: "backend", Title: "Backend engineer", ProblemCategories: []models.Category{"GO"},
	})
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
