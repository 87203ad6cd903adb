package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vivaahaverse/vivaah/internal/user"
)

// SQLSTATE unique_violation.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectUserColumns = `id, name, email, password_hash, role, budget_limit, created_at`

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var role string

	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.BudgetLimit, &u.CreatedAt); err != nil {
		return nil, err
	}

	u.Role = user.Role(role)

	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, budget_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.BudgetLimit, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	return s.getOne(ctx, query, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	return s.getOne(ctx, query, email)
}

func (s *Store) UpdateBudgetLimit(ctx context.Context, id uuid.UUID, limit int64) (*user.User, error) {
	query := `UPDATE users SET budget_limit = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + selectUserColumns

	return s.getOne(ctx, query, limit, id)
}

func (s *Store) getOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}
