package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var userCols = []string{"id", "club_id", "name", "email", "password_hash", "role", "permissions", "created_at"}

func TestCreateAndFindUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (id, club_id, name, email, password_hash, role, permissions) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING " + userColumns)).
		WithArgs(sqlmock.AnyArg(), "club-1", "Alice", "a@example.com", "hash", "member", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "club-1", "Alice", "a@example.com", "hash", "member", "{}", now))

	u, err := repo.Create(ctx, &User{ClubID: "club-1", Name: "Alice", Email: "A@Example.com", PasswordHash: "hash", Role: "member"})
	require.NoError(t, err)
	require.Equal(t, "u-1", u.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE club_id = $1 AND email = $2")).
		WithArgs("club-1", "a@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "club-1", "Alice", "a@example.com", "hash", "coach", "{privateLessonArea}", now))

	fu, err := repo.FindByEmail(ctx, "club-1", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", fu.Name)
	assert.Equal(t, []string{"privateLessonArea"}, []string(fu.Permissions))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE club_id = $1 AND email = $2)")).
		WithArgs("club-1", "a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(ctx, "club-1", "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE club_id = $1 AND id = $2")).
		WithArgs("club-1", "ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "club-1", "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateAccess(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET role = $1, permissions = $2 WHERE club_id = $3 AND id = $4")).
		WithArgs("coach", sqlmock.AnyArg(), "club-1", "u-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "club-1", "Alice", "a@example.com", "hash", "coach", "{privateLessonArea}", time.Now()))

	u, err := repo.UpdateAccess(context.Background(), "club-1", "u-1", "coach", []string{"privateLessonArea"})
	require.NoError(t, err)
	assert.Equal(t, "coach", u.Role)
}
