package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vivaahaverse/vivaah/internal/booking"
)

// SQLSTATE exclusion_violation, raised by bookings_no_overlap.
const exclusionViolation = "23P01"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBookingColumns = `
	id, service_id, service_name, category, client_id, vendor_id, amount,
	start_date, end_date, status, booked_at, cancelled_by, cancellation_reason, updated_at
`

func scanBooking(s scanner) (*booking.Booking, error) {
	var b booking.Booking

	var status string

	var cancelledBy sql.NullString

	if err := s.Scan(
		&b.ID, &b.ServiceID, &b.ServiceName, &b.Category, &b.ClientID, &b.VendorID, &b.Amount,
		&b.StartDate, &b.EndDate, &status, &b.BookedAt, &cancelledBy, &b.CancellationReason, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Status = booking.Status(status)
	b.StartDate = booking.Day(b.StartDate)
	b.EndDate = booking.Day(b.EndDate)

	if cancelledBy.Valid {
		p := booking.Party(cancelledBy.String)
		b.CancelledBy = &p
	}

	return &b, nil
}

// ServiceLockKey is the advisory lock key that serializes creates for one service.
func ServiceLockKey(serviceID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("booking:"))
	h.Write(serviceID[:])

	return int64(h.Sum64())
}

type createTx struct {
	tx *sql.Tx
}

func (s *Store) BeginCreate(ctx context.Context, serviceID uuid.UUID) (booking.CreateTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning booking tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", ServiceLockKey(serviceID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring service lock: %w", err)
	}

	return &createTx{tx: dbTx}, nil
}

func (c *createTx) Commit() error   { return c.tx.Commit() }
func (c *createTx) Rollback() error { return c.tx.Rollback() }

func (c *createTx) HasOverlap(ctx context.Context, serviceID uuid.UUID, span booking.Interval) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE service_id = $1 AND status = $2
			  AND start_date <= $3 AND end_date >= $4
		)
	`

	var taken bool

	err := c.tx.QueryRowContext(ctx, query,
		serviceID, booking.StatusConfirmed, span.End, span.Start,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("checking overlap: %w", err)
	}

	return taken, nil
}

func (c *createTx) CreateBooking(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (service_id, service_name, category, client_id, vendor_id, amount,
			start_date, end_date, status, booked_at, cancellation_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '')
		RETURNING id
	`

	err := c.tx.QueryRowContext(ctx, query,
		b.ServiceID,
		b.ServiceName,
		b.Category,
		b.ClientID,
		b.VendorID,
		b.Amount,
		b.StartDate,
		b.EndDate,
		b.Status,
		b.BookedAt,
	).Scan(&b.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return booking.ErrConflict
		}

		return fmt.Errorf("creating booking: %w", err)
	}

	return nil
}

func (s *Store) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrNotFound
		}

		return nil, fmt.Errorf("getting booking: %w", err)
	}

	return b, nil
}

func (s *Store) UpdateCancellation(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, cancelled_by = $2, cancellation_reason = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	var cancelledBy *string
	if b.CancelledBy != nil {
		cancelledBy = new(string(*b.CancelledBy))
	}

	err := s.db.QueryRowContext(ctx, query,
		b.Status, cancelledBy, b.CancellationReason, b.ID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.ErrNotFound
		}

		return fmt.Errorf("updating cancellation: %w", err)
	}

	return nil
}

func (s *Store) ListBookings(ctx context.Context, filter booking.ListFilter) ([]*booking.Booking, error) {
	query := `SELECT ` + selectBookingColumns + ` FROM bookings WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.ServiceID != nil {
		query += fmt.Sprintf(" AND service_id = $%d", argIdx)

		args = append(args, *filter.ServiceID)
		argIdx++
	}

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.VendorID != nil {
		query += fmt.Sprintf(" AND vendor_id = $%d", argIdx)

		args = append(args, *filter.VendorID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY start_date ASC, booked_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*booking.Booking

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}

		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating booking rows: %w", err)
	}

	return bookings, nil
}
