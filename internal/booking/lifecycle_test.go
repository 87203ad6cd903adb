package booking_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivaahaverse/vivaah/internal/booking"
)

// memRepo is an in-memory Repository. BeginCreate holds a per-service mutex
// until the transaction ends, mirroring the advisory lock of the SQL store.
type memRepo struct {
	locks sync.Map // uuid.UUID -> *sync.Mutex

	mu       sync.Mutex
	bookings map[uuid.UUID]booking.Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: make(map[uuid.UUID]booking.Booking)}
}

func (r *memRepo) BeginCreate(_ context.Context, serviceID uuid.UUID) (booking.CreateTx, error) {
	l, _ := r.locks.LoadOrStore(serviceID, &sync.Mutex{})
	lock := l.(*sync.Mutex)
	lock.Lock()

	return &memTx{repo: r, unlock: lock.Unlock}, nil
}

func (r *memRepo) GetBooking(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}

	return &b, nil
}

func (r *memRepo) UpdateCancellation(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; !ok {
		return booking.ErrNotFound
	}

	r.bookings[b.ID] = *b

	return nil
}

func (r *memRepo) ListBookings(_ context.Context, f booking.ListFilter) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*booking.Booking

	for _, b := range r.bookings {
		if f.ServiceID != nil && b.ServiceID != *f.ServiceID {
			continue
		}

		if f.ClientID != nil && b.ClientID != *f.ClientID {
			continue
		}

		if f.VendorID != nil && b.VendorID != *f.VendorID {
			continue
		}

		if f.Status != nil && b.Status != *f.Status {
			continue
		}

		out = append(out, &b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })

	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.bookings)
}

type memTx struct {
	repo    *memRepo
	unlock  func()
	pending []booking.Booking
	done    bool
}

func (tx *memTx) HasOverlap(_ context.Context, serviceID uuid.UUID, span booking.Interval) (bool, error) {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	for _, b := range tx.repo.bookings {
		if b.ServiceID == serviceID && b.Status == booking.StatusConfirmed && b.Interval().Overlaps(span) {
			return true, nil
		}
	}

	return false, nil
}

func (tx *memTx) CreateBooking(_ context.Context, b *booking.Booking) error {
	b.ID = uuid.New()
	tx.pending = append(tx.pending, *b)

	return nil
}

func (tx *memTx) Commit() error {
	if tx.done {
		return errors.New("transaction already closed")
	}

	tx.repo.mu.Lock()
	for _, b := range tx.pending {
		tx.repo.bookings[b.ID] = b
	}
	tx.repo.mu.Unlock()

	tx.done = true
	tx.unlock()

	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.unlock()

	return nil
}

func TestLifecycle_ConflictCancelRebook(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := booking.NewService(repo, nil)

	s1, c1, c2, v1 := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	b1, err := svc.Create(ctx, booking.CreateParams{
		ServiceID: s1, ClientID: c1, VendorID: v1,
		StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 5),
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, b1.Status)

	b2 := booking.CreateParams{
		ServiceID: s1, ClientID: c2, VendorID: v1,
		StartDate: date(2024, 6, 4), EndDate: date(2024, 6, 10),
	}

	_, err = svc.Create(ctx, b2)
	require.ErrorIs(t, err, booking.ErrConflict)

	cancelled, err := svc.Cancel(ctx, b1.ID, booking.CancelParams{
		CancelledBy: booking.PartyClient,
		Reason:      "change of plan",
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)

	calendar, err := svc.ListByService(ctx, s1)
	require.NoError(t, err)
	assert.Empty(t, calendar, "cancelled bookings are not shown as taken")

	rebooked, err := svc.Create(ctx, b2)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, rebooked.Status)

	calendar, err = svc.ListByService(ctx, s1)
	require.NoError(t, err)
	require.Len(t, calendar, 1)
	assert.Equal(t, rebooked.ID, calendar[0].ID)

	mine, err := svc.ListByClient(ctx, c1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, booking.StatusCancelled, mine[0].Status)

	orders, err := svc.ListByVendor(ctx, v1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestLifecycle_OtherServiceNeverConflicts(t *testing.T) {
	ctx := context.Background()
	svc := booking.NewService(newMemRepo(), nil)
	vendor := uuid.New()

	for range 3 {
		_, err := svc.Create(ctx, booking.CreateParams{
			ServiceID: uuid.New(), ClientID: uuid.New(), VendorID: vendor,
			StartDate: date(2024, 1, 10), EndDate: date(2024, 1, 20),
		})
		require.NoError(t, err)
	}
}

func TestLifecycle_FailuresPersistNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := booking.NewService(repo, nil)
	user := uuid.New()

	_, err := svc.Create(ctx, booking.CreateParams{
		ServiceID: uuid.New(), ClientID: user, VendorID: user,
		StartDate: date(2024, 1, 10), EndDate: date(2024, 1, 20),
	})
	require.ErrorIs(t, err, booking.ErrValidation)

	_, err = svc.Cancel(ctx, uuid.New(), booking.CancelParams{CancelledBy: booking.PartyVendor})
	require.ErrorIs(t, err, booking.ErrNotFound)

	assert.Zero(t, repo.count())
}

func TestLifecycle_ConcurrentCreatesDoNotDoubleBook(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := booking.NewService(repo, nil)
	service, vendor := uuid.New(), uuid.New()

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	start := make(chan struct{})

	for i := range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			_, err := svc.Create(ctx, booking.CreateParams{
				ServiceID: service,
				ClientID:  uuid.New(),
				VendorID:  vendor,
				StartDate: date(2024, 12, 1).AddDate(0, 0, i%3),
				EndDate:   date(2024, 12, 5),
			})

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, booking.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	calendar, err := svc.ListByService(ctx, service)
	require.NoError(t, err)
	assert.Len(t, calendar, 1)
	assert.WithinDuration(t, time.Now(), calendar[0].BookedAt, time.Minute)
}
