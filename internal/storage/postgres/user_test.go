package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"blog-auth/internal/models"
	"blog-auth/internal/storage"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewUserRepository(db), mock, db
}

func userColumns() []string {
	return []string{"id", "email", "name", "password_hash", "role", "created_at"}
}

func TestUserRepo_CreateUser(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "Bob", "hashed", models.RoleUser).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id, "bob@example.com", "Bob", "hashed", models.RoleUser, time.Now()))

	user, err := repo.CreateUser(context.Background(), &models.User{
		Email:        "bob@example.com",
		Name:         "Bob",
		PasswordHash: "hashed",
		Role:         models.RoleUser,
	})
	require.NoError(t, err)
	require.Equal(t, id, user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateUserDuplicateEmail(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "Bob", "hashed", models.RoleUser).
		WillReturnError(&pq.Error{Code: uniqueViolationCode})

	_, err := repo.CreateUser(context.Background(), &models.User{
		Email:        "bob@example.com",
		Name:         "Bob",
		PasswordHash: "hashed",
		Role:         models.RoleUser,
	})
	require.ErrorIs(t, err, storage.ErrUserAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UserByEmailNotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
