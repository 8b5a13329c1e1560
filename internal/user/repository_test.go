package user

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "email", "password_hash", "created_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

func TestCreateAndFindUser(t *testing.T) {
	repo, mock := setupUserMock(t)
	now := time.Now()
	name := "Alice"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("Alice", "a@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	id, err := repo.Create(context.Background(), &name, "a@example.com", "hash")
	require.NoError(t, err)
	require.Equal(t, 1, id)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "a@example.com", "hash", now))

	u, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", *u.Name)
	require.Equal(t, "hash", u.PasswordHash)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, nil, "a@example.com", "hash", now))

	u, err = repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, u.Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), nil, "a@example.com", "hash")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, u)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("b@example.com").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.FindByEmail(context.Background(), "b@example.com")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

const (
	lockUserQuery     = "SELECT id FROM users WHERE id = $1 FOR UPDATE"
	lockClassesQuery  = "SELECT id FROM classes WHERE id IN (SELECT class_id FROM class_users WHERE user_id = $1) ORDER BY id FOR UPDATE"
	removeEnrollments = "DELETE FROM class_users WHERE user_id = $1 RETURNING class_id"
	releaseSeatsQuery = "UPDATE classes SET users = users - 1 WHERE id = ANY($1) AND users > 0"
	deleteUserQuery   = "DELETE FROM users WHERE id = $1"
)

func TestDelete_ReleasesSeatsInTransaction(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockUserQuery)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(lockClassesQuery)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(removeEnrollments)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"class_id"}).AddRow(3).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(releaseSeatsQuery)).
		WithArgs(pq.Array([]int64{3, 7})).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserQuery)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NoEnrollments(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockUserQuery)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(lockClassesQuery)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserQuery)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A class row that vanished between the lock and the delete (a racing leave)
// must not be decremented.
func TestDelete_ReleasesOnlyRemovedRows(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockUserQuery)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(lockClassesQuery)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(removeEnrollments)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"class_id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta(releaseSeatsQuery)).
		WithArgs(pq.Array([]int64{7})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteUserQuery)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_MissingUser(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockUserQuery)).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	n, err := repo.Delete(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RollsBackOnFailure(t *testing.T) {
	repo, mock := setupUserMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockUserQuery)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(lockClassesQuery)).
		WithArgs(4).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 4)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
