package budget_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaahaverse/vivaah/internal/booking"
	"github.com/vivaahaverse/vivaah/internal/budget"
	"github.com/vivaahaverse/vivaah/internal/user"
)

type fakeUsers map[uuid.UUID]*user.User

func (f fakeUsers) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}

	return nil, user.ErrNotFound
}

type fakeExpenses struct {
	total int64
	err   error
}

func (f fakeExpenses) Total(context.Context, uuid.UUID) (int64, error) { return f.total, f.err }

type fakeBookings []*booking.Booking

func (f fakeBookings) ListByClient(context.Context, uuid.UUID) ([]*booking.Booking, error) {
	return f, nil
}

func TestService_Summary(t *testing.T) {
	id := uuid.New()
	users := fakeUsers{id: {ID: id, BudgetLimit: 1000000}}
	bookings := fakeBookings{
		{Amount: 300000, Status: booking.StatusConfirmed},
		{Amount: 900000, Status: booking.StatusCancelled},
		{Amount: 200000, Status: booking.StatusConfirmed},
	}

	svc := budget.NewService(users, fakeExpenses{total: 150000}, bookings)

	got, err := svc.Summary(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, &budget.Summary{
		Limit:         1000000,
		ExpensesTotal: 150000,
		BookingsTotal: 500000,
		Spent:         650000,
		Remaining:     350000,
	}, got)
}

func TestService_SummaryOverBudget(t *testing.T) {
	id := uuid.New()
	svc := budget.NewService(fakeUsers{id: {ID: id, BudgetLimit: 100}}, fakeExpenses{total: 250}, fakeBookings{})

	got, err := svc.Summary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(-150), got.Remaining)
}

func TestService_SummaryErrors(t *testing.T) {
	id := uuid.New()

	_, err := budget.NewService(fakeUsers{}, fakeExpenses{}, fakeBookings{}).Summary(context.Background(), id)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = budget.NewService(fakeUsers{id: {ID: id}}, fakeExpenses{err: errors.New("db down")}, fakeBookings{}).
		Summary(context.Background(), id)
	assert.ErrorContains(t, err, "totalling expenses")
}
