package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectExpenseColumns = `id, user_id, title, category, amount, description, date, created_at`

func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	if err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Category, &e.Amount, &e.Description, &e.Date, &e.CreatedAt); err != nil {
		return nil, err
	}

	return &e, nil
}

func insertExpense(ctx context.Context, q querier, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (user_id, title, category, amount, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		e.UserID,
		e.Title,
		e.Category,
		e.Amount,
		e.Description,
		e.Date,
		e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	return insertExpense(ctx, s.db, e)
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, userID uuid.UUID) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE user_id = $1 ORDER BY date DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET title = $1, category = $2, amount = $3, description = $4, date = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query, e.Title, e.Category, e.Amount, e.Description, e.Date, e.ID)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	return nil
}

func (s *Store) TotalForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64

	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing expenses: %w", err)
	}

	return total, nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (expense.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (i *importTx) CreateExpense(ctx context.Context, e *expense.Expense) error {
	return insertExpense(ctx, i.tx, e)
}

func (i *importTx) Commit() error   { return i.tx.Commit() }
func (i *importTx) Rollback() error { return i.tx.Rollback() }
