package budget

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/booking"
	"github.com/vivaahaverse/vivaah/internal/user"
)

type Users interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Expenses interface {
	Total(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Bookings interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*booking.Booking, error)
}

// Summary is a user's spending against their budget limit, in minor units.
type Summary struct {
	Limit         int64
	ExpensesTotal int64
	BookingsTotal int64
	Spent         int64
	Remaining     int64
}

type Service struct {
	users    Users
	expenses Expenses
	bookings Bookings
}

func NewService(users Users, expenses Expenses, bookings Bookings) *Service {
	return &Service{users: users, expenses: expenses, bookings: bookings}
}

// Summary adds the user's expenses and confirmed client bookings. Remaining
// goes negative when the limit is exceeded.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.Total(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("totalling expenses: %w", err)
	}

	bookings, err := s.bookings.ListByClient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	var booked int64

	for _, b := range bookings {
		if b.Status == booking.StatusConfirmed {
			booked += b.Amount
		}
	}

	spent := expenses + booked

	return &Summary{
		Limit:         u.BudgetLimit,
		ExpensesTotal: expenses,
		BookingsTotal: booked,
		Spent:         spent,
		Remaining:     u.BudgetLimit - spent,
	}, nil
}
