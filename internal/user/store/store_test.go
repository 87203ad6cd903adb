package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaahaverse/vivaah/internal/user"
	"github.com/vivaahaverse/vivaah/internal/user/store"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "budget_limit", "created_at"}

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return store.New(db), mock
}

func TestStore_CreateUserDuplicateEmail(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := s.CreateUser(context.Background(), &user.User{Email: "asha@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestStore_GetUserByEmail(t *testing.T) {
	s, mock := newStore(t)
	id := uuid.New()

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "Asha", "asha@example.com", "hash", "VENDOR", int64(500000), time.Now()))

	got, err := s.GetUserByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, user.RoleVendor, got.Role)
	assert.Equal(t, int64(500000), got.BudgetLimit)
}

func TestStore_UpdateBudgetLimitNotFound(t *testing.T) {
	s, mock := newStore(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE users SET budget_limit").
		WithArgs(int64(100), id).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := s.UpdateBudgetLimit(context.Background(), id, 100)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
