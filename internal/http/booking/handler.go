package booking

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/booking"
	"github.com/vivaahaverse/vivaah/internal/catalog"
	"github.com/vivaahaverse/vivaah/internal/http/httpx"
)

// Listings resolves the booked service so the booking keeps a snapshot of
// its name and category.
type Listings interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Listing, error)
}

type Handler struct {
	svc      *booking.Service
	listings Listings
}

func NewHandler(svc *booking.Service, listings Listings) *Handler {
	return &Handler{svc: svc, listings: listings}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/cancel/{id}", h.cancel)
	r.Get("/service/{serviceId}", h.listByService)
	r.Get("/client/{clientId}", h.listByClient)
	r.Get("/vendor/{vendorId}", h.listByVendor)
	r.Get("/{id}", h.get)
}

type createBookingRequest struct {
	ServiceID   uuid.UUID  `json:"serviceId"`
	ServiceName string     `json:"serviceName"`
	Category    string     `json:"category"`
	ClientID    uuid.UUID  `json:"clientId"`
	VendorID    uuid.UUID  `json:"vendorId"`
	Amount      int64      `json:"amount"`
	StartDate   httpx.Date `json:"startDate"`
	EndDate     httpx.Date `json:"endDate"`
}

type cancelBookingRequest struct {
	CancelledBy        string `json:"cancelledBy"`
	CancellationReason string `json:"cancellationReason"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	params := booking.CreateParams{
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		Category:    req.Category,
		ClientID:    req.ClientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
	}

	if params.ServiceName == "" && h.listings != nil && params.ServiceID != uuid.Nil {
		if l, err := h.listings.Get(r.Context(), params.ServiceID); err == nil {
			params.ServiceName = l.ServiceName
			params.Category = l.Category
		}
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req cancelBookingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	party, err := booking.ParseParty(req.CancelledBy)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.svc.Cancel(r.Context(), id, booking.CancelParams{
		CancelledBy: party,
		Reason:      req.CancellationReason,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) listByService(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "serviceId", h.svc.ListByService)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "clientId", h.svc.ListByClient)
}

func (h *Handler) listByVendor(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "vendorId", h.svc.ListByVendor)
}

func (h *Handler) list(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	fetch func(context.Context, uuid.UUID) ([]*booking.Booking, error),
) {
	id, ok := parseID(w, r, param)
	if !ok {
		return
	}

	bs, err := fetch(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(bs))
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httpx.BadRequest(w, "invalid "+param)
		return uuid.Nil, false
	}

	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error())
	case errors.Is(err, booking.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, httpx.CodeDatesUnavailable, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, err.Error())
	default:
		httpx.Internal(w, r, err)
	}
}
