// Package notify carries booking lifecycle events to the party that did not
// trigger them. Delivery is best-effort: callers log publish failures and
// carry on.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBookingCreated   Type = "booking.created"
	TypeBookingCancelled Type = "booking.cancelled"
)

// Event is the message published after a booking is created or cancelled.
// TargetUserID is the counterparty who should be told about it.
type Event struct {
	Type         Type      `json:"type"`
	BookingID    uuid.UUID `json:"bookingId"`
	ServiceID    uuid.UUID `json:"serviceId"`
	ServiceName  string    `json:"serviceName,omitempty"`
	TargetUserID uuid.UUID `json:"targetUserId"`
	CancelledBy  string    `json:"cancelledBy,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Decode parses a published event body.
func Decode(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	switch e.Type {
	case TypeBookingCreated, TypeBookingCancelled:
	default:
		return Event{}, fmt.Errorf("decode event: unknown type %q", e.Type)
	}

	return e, nil
}

// Message renders the text a user would receive for the event.
func Message(e Event) string {
	name := e.ServiceName
	if name == "" {
		name = "your service"
	}

	switch e.Type {
	case TypeBookingCreated:
		return fmt.Sprintf("New booking for %s from %s to %s", name, e.StartDate, e.EndDate)
	case TypeBookingCancelled:
		msg := fmt.Sprintf("Booking for %s from %s to %s was cancelled by the %s",
			name, e.StartDate, e.EndDate, partyLabel(e.CancelledBy))
		if e.Reason != "" {
			msg += ": " + e.Reason
		}

		return msg
	}

	return string(e.Type)
}

func partyLabel(p string) string {
	switch p {
	case "CLIENT":
		return "client"
	case "VENDOR":
		return "vendor"
	}

	return "other party"
}
