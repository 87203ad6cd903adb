package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/booking"
	"github.com/vivaahaverse/vivaah/internal/http/httpx"
)

type bookingResponse struct {
	ID                 uuid.UUID      `json:"id"`
	ServiceID          uuid.UUID      `json:"serviceId"`
	ServiceName        string         `json:"serviceName,omitempty"`
	Category           string         `json:"category,omitempty"`
	ClientID           uuid.UUID      `json:"clientId"`
	VendorID           uuid.UUID      `json:"vendorId"`
	Amount             int64          `json:"amount"`
	StartDate          httpx.Date     `json:"startDate"`
	EndDate            httpx.Date     `json:"endDate"`
	Status             booking.Status `json:"status"`
	BookedAt           time.Time      `json:"bookedAt"`
	CancelledBy        *booking.Party `json:"cancelledBy,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty"`
	UpdatedAt          *time.Time     `json:"updatedAt,omitempty"`
}

func toResponse(b *booking.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		ServiceID:          b.ServiceID,
		ServiceName:        b.ServiceName,
		Category:           b.Category,
		ClientID:           b.ClientID,
		VendorID:           b.VendorID,
		Amount:             b.Amount,
		StartDate:          httpx.Date{Time: b.StartDate},
		EndDate:            httpx.Date{Time: b.EndDate},
		Status:             b.Status,
		BookedAt:           b.BookedAt,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toResponseList(bs []*booking.Booking) []bookingResponse {
	resp := make([]bookingResponse, 0, len(bs))
	for _, b := range bs {
		resp = append(resp, toResponse(b))
	}

	return resp
}
