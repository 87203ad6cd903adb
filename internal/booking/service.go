package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vivaahaverse/vivaah/internal/notify"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=booking
type Repository interface {
	// BeginCreate opens a transaction that is exclusive per service: no
	// other create for the same service can check or insert until it ends.
	BeginCreate(ctx context.Context, serviceID uuid.UUID) (CreateTx, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateCancellation(ctx context.Context, b *Booking) error
	ListBookings(ctx context.Context, filter ListFilter) ([]*Booking, error)
}

type CreateTx interface {
	HasOverlap(ctx context.Context, serviceID uuid.UUID, span Interval) (bool, error)
	CreateBooking(ctx context.Context, b *Booking) error
	Commit() error
	Rollback() error
}

// Notifier receives lifecycle events after they are persisted.
type Notifier interface {
	Notify(ctx context.Context, e notify.Event) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		tracer:   otel.Tracer("github.com/vivaahaverse/vivaah/internal/booking"),
		now:      time.Now,
	}
}

type CreateParams struct {
	ServiceID   uuid.UUID
	ServiceName string
	Category    string
	ClientID    uuid.UUID
	VendorID    uuid.UUID
	Amount      int64
	StartDate   time.Time
	EndDate     time.Time
}

type CancelParams struct {
	CancelledBy Party
	Reason      string
}

type ListFilter struct {
	ServiceID *uuid.UUID
	ClientID  *uuid.UUID
	VendorID  *uuid.UUID
	Status    *Status
}

func (p CreateParams) validate() (Interval, error) {
	if p.ServiceID == uuid.Nil || p.ClientID == uuid.Nil || p.VendorID == uuid.Nil {
		return Interval{}, fmt.Errorf("%w: serviceId, clientId and vendorId are required", ErrValidation)
	}

	if p.ClientID == p.VendorID {
		return Interval{}, fmt.Errorf("%w: you cannot book your own service", ErrValidation)
	}

	if p.Amount < 0 {
		return Interval{}, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}

	return NewInterval(p.StartDate, p.EndDate)
}

// Create confirms a booking if no confirmed booking of the same service
// overlaps the requested days.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.String("service.id", params.ServiceID.String()),
	))
	defer span.End()

	days, err := params.validate()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	b := &Booking{
		ServiceID:   params.ServiceID,
		ServiceName: params.ServiceName,
		Category:    params.Category,
		ClientID:    params.ClientID,
		VendorID:    params.VendorID,
		Amount:      params.Amount,
		StartDate:   days.Start,
		EndDate:     days.End,
		Status:      StatusConfirmed,
		BookedAt:    s.now().UTC(),
	}

	if err := s.insertIfFree(ctx, b); err != nil {
		if errors.Is(err, ErrConflict) {
			span.SetAttributes(attribute.Bool("booking.conflict", true))
		}

		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.String("booking.id", b.ID.String()))

	s.publish(ctx, notify.Event{
		Type:         notify.TypeBookingCreated,
		BookingID:    b.ID,
		ServiceID:    b.ServiceID,
		ServiceName:  b.ServiceName,
		TargetUserID: b.VendorID,
		StartDate:    b.StartDate.Format(time.DateOnly),
		EndDate:      b.EndDate.Format(time.DateOnly),
		OccurredAt:   b.BookedAt,
	})

	return b, nil
}

func (s *Service) insertIfFree(ctx context.Context, b *Booking) error {
	tx, err := s.repo.BeginCreate(ctx, b.ServiceID)
	if err != nil {
		return fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	taken, err := tx.HasOverlap(ctx, b.ServiceID, b.Interval())
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}

	if taken {
		return ErrConflict
	}

	if err := tx.CreateBooking(ctx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}

	return nil
}

// Cancel marks a booking cancelled by one of its parties. Cancelling an
// already cancelled booking overwrites the cancellation details.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, params CancelParams) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.cancel", trace.WithAttributes(
		attribute.String("booking.id", id.String()),
		attribute.String("booking.cancelled_by", string(params.CancelledBy)),
	))
	defer span.End()

	if !params.CancelledBy.Valid() {
		err := fmt.Errorf("%w: cancelledBy must be CLIENT or VENDOR", ErrValidation)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	by := params.CancelledBy
	b.Status = StatusCancelled
	b.CancelledBy = &by
	b.CancellationReason = params.Reason

	if err := s.repo.UpdateCancellation(ctx, b); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.publish(ctx, notify.Event{
		Type:         notify.TypeBookingCancelled,
		BookingID:    b.ID,
		ServiceID:    b.ServiceID,
		ServiceName:  b.ServiceName,
		TargetUserID: b.Counterparty(by),
		CancelledBy:  string(by),
		Reason:       b.CancellationReason,
		StartDate:    b.StartDate.Format(time.DateOnly),
		EndDate:      b.EndDate.Format(time.DateOnly),
		OccurredAt:   s.now().UTC(),
	})

	return b, nil
}

func (s *Service) publish(ctx context.Context, e notify.Event) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, e); err != nil {
		slog.Warn("failed to publish booking event",
			"type", e.Type, "booking_id", e.BookingID, "error", err)
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// ListByService returns the confirmed bookings of a service, i.e. the days
// a calendar should show as taken.
func (s *Service) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*Booking, error) {
	return s.repo.ListBookings(ctx, ListFilter{
		ServiceID: &serviceID,
		Status:    new(StatusConfirmed),
	})
}

func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Booking, error) {
	return s.repo.ListBookings(ctx, ListFilter{ClientID: &clientID})
}

func (s *Service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Booking, error) {
	return s.repo.ListBookings(ctx, ListFilter{VendorID: &vendorID})
}
