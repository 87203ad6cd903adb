package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, userID uuid.UUID) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	TotalForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx inserts a batch of expenses atomically.
type ImportTx interface {
	CreateExpense(ctx context.Context, e *Expense) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	UserID      uuid.UUID
	Title       string
	Category    string
	Amount      int64
	Description string
	Date        time.Time
}

// UpdateParams changes only the non-nil fields.
type UpdateParams struct {
	Title       *string
	Category    *string
	Amount      *int64
	Description *string
	Date        *time.Time
}

func (s *Service) build(params CreateParams) (*Expense, error) {
	title := strings.TrimSpace(params.Title)

	if params.UserID == uuid.Nil || title == "" {
		return nil, fmt.Errorf("%w: userId and title are required", ErrValidation)
	}

	if params.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}

	now := s.now().UTC()

	date := params.Date
	if date.IsZero() {
		date = now
	}

	return &Expense{
		UserID:      params.UserID,
		Title:       title,
		Category:    strings.TrimSpace(params.Category),
		Amount:      params.Amount,
		Description: params.Description,
		Date:        date,
		CreatedAt:   now,
	}, nil
}

// Create records an expense. A zero date means now.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	e, err := s.build(params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}

		e.Title = title
	}

	if params.Amount != nil {
		if *params.Amount < 0 {
			return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
		}

		e.Amount = *params.Amount
	}

	if params.Category != nil {
		e.Category = strings.TrimSpace(*params.Category)
	}

	if params.Description != nil {
		e.Description = *params.Description
	}

	if params.Date != nil && !params.Date.IsZero() {
		e.Date = *params.Date
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, id)
}

func (s *Service) Total(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.TotalForUser(ctx, userID)
}

// Import inserts every row for the user in one transaction. Any invalid row
// aborts the whole batch.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Expense, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	if len(params) == 0 {
		return []*Expense{}, nil
	}

	expenses := make([]*Expense, 0, len(params))

	for i, p := range params {
		p.UserID = userID

		e, err := s.build(p)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		expenses = append(expenses, e)
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	for _, e := range expenses {
		if err := itx.CreateExpense(ctx, e); err != nil {
			return nil, fmt.Errorf("importing expense %q: %w", e.Title, err)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return expenses, nil
}
