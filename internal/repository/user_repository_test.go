package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webapp-template/auth-service/internal/domain"
	"github.com/webapp-template/auth-service/pkg/database"
)

func newMockUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(&database.Postgres{DB: db}), mock
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{Email: "user@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_PasswordlessUser(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "avatar_url", "role", "created_at", "updated_at"}).
		AddRow("3f1c8a1e-0000-0000-0000-000000000001", "user@example.com", nil, nil, nil, "USER", now, now)

	mock.ExpectQuery("SELECT id, email, password_hash, name, avatar_url, role, created_at, updated_at").
		WithArgs("user@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.PasswordHash)
	assert.Nil(t, user.Name)
	assert.False(t, user.HasPassword())
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT id, email, password_hash, name, avatar_url, role, created_at, updated_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "avatar_url", "role", "created_at", "updated_at"}))

	user, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("UPDATE users").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.User{
		ID:    "missing",
		Email: "user@example.com",
		Role:  domain.RoleUser,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
