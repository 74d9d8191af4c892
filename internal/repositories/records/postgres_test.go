package records

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+credentials\s*\(id,\s*identifier,\s*algorithm,\s*salt,\s*derived_key,\s*iterations,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*ON\s+CONFLICT\s*\(identifier\)\s*DO\s+NOTHING\s*$`
	selectQ  = `(?s)^SELECT\s+id,\s*identifier,\s*algorithm,\s*salt,\s*derived_key,\s*iterations,\s*created_at\s+FROM\s+credentials\s+WHERE\s+identifier\s*=\s*\$1\s*$`
	updateQ  = `(?s)^UPDATE\s+credentials\s+SET\s+id\s*=\s*\$1,.*WHERE\s+identifier\s*=\s*\$7\s*$`
	deleteQ  = `^DELETE\s+FROM\s+credentials\s+WHERE\s+identifier\s*=\s*\$1$`
	dbErrMsg = `db error: .*db down`
)

func TestPostgres_Create_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rec := newRecord("alice", "id-1")
	mock.ExpectExec(insertQ).
		WithArgs("id-1", "alice", "pbkdf2-sha256", rec.Salt, rec.DerivedKey, 100_000, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Create_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), newRecord("alice", "id-1"))
	require.ErrorIs(t, err, common.ErrDuplicateIdentifier)
}

func TestPostgres_Create_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), newRecord("alice", "id-1"))
	if err == nil || !regexp.MustCompile(dbErrMsg).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_Get_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := newRecord("alice", "id-1")
	rows := sqlmock.NewRows([]string{"id", "identifier", "algorithm", "salt", "derived_key", "iterations", "created_at"}).
		AddRow(want.ID, want.Identifier, "pbkdf2-sha256", want.Salt, want.DerivedKey, int64(want.Iterations), want.CreatedAt)
	mock.ExpectQuery(selectQ).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPostgres_Get_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrIdentifierNotFound)
}

func TestPostgres_Get_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("alice").WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(dbErrMsg).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_Replace(t *testing.T) {
	tests := []struct {
		name    string
		result  func(*sqlmock.ExpectedExec)
		wantErr error
	}{
		{
			name:   "replaced",
			result: func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) },
		},
		{
			name:    "missing",
			result:  func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			wantErr: common.ErrIdentifierNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			rec := newRecord("alice", "id-2")
			e := mock.ExpectExec(updateQ).
				WithArgs("id-2", "pbkdf2-sha256", rec.Salt, rec.DerivedKey, 100_000, rec.CreatedAt, "alice")
			tt.result(e)

			err := repo.Replace(context.Background(), rec)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgres_Replace_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnError(errors.New("db down"))

	err := repo.Replace(context.Background(), newRecord("alice", "id-2"))
	if err == nil || !regexp.MustCompile(dbErrMsg).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_Delete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Delete(context.Background(), "alice"), "absent rows are not an error")

	mock.ExpectExec(deleteQ).WithArgs("alice").WillReturnError(errors.New("db down"))
	err := repo.Delete(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(dbErrMsg).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}
