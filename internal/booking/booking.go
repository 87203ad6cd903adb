package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("booking not found")
	ErrValidation = errors.New("invalid booking")
	// ErrConflict means a confirmed booking already occupies part of the range.
	ErrConflict = errors.New("this service is already booked for these dates")
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Party identifies which side of a booking performed an action.
type Party string

const (
	PartyClient Party = "CLIENT"
	PartyVendor Party = "VENDOR"
)

// ParseParty accepts CLIENT or VENDOR in any case.
func ParseParty(s string) (Party, error) {
	p := Party(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: cancelledBy must be CLIENT or VENDOR, got %q", ErrValidation, s)
	}

	return p, nil
}

func (p Party) Valid() bool {
	return p == PartyClient || p == PartyVendor
}

// Booking is a reservation of a vendor service by a client over an
// inclusive range of calendar days.
type Booking struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	ServiceName string // Snapshot of the service at booking time
	Category    string
	ClientID    uuid.UUID
	VendorID    uuid.UUID
	Amount      int64 // Minor currency units
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
	BookedAt    time.Time

	CancelledBy        *Party
	CancellationReason string
	UpdatedAt          *time.Time
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartDate, End: b.EndDate}
}

// Counterparty returns the user on the other side of an action taken by p.
func (b *Booking) Counterparty(p Party) uuid.UUID {
	if p == PartyClient {
		return b.VendorID
	}

	return b.ClientID
}
