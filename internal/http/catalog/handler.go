package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/catalog"
	"github.com/vivaahaverse/vivaah/internal/http/httpx"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/my-listings/{vendorId}", h.listByVendor)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createListingRequest struct {
	VendorID    uuid.UUID `json:"vendorId"`
	VendorName  string    `json:"vendorName"`
	ServiceName string    `json:"serviceName"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	PriceType   string    `json:"priceType"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

type updateListingRequest struct {
	ServiceName *string `json:"serviceName"`
	Category    *string `json:"category"`
	Price       *int64  `json:"price"`
	Description *string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	l, err := h.svc.Create(r.Context(), catalog.CreateParams{
		VendorID:    req.VendorID,
		VendorName:  req.VendorName,
		ServiceName: req.ServiceName,
		Category:    req.Category,
		Price:       req.Price,
		PriceType:   req.PriceType,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ls, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(ls))
}

func (h *Handler) listByVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := uuid.Parse(chi.URLParam(r, "vendorId"))
	if err != nil {
		httpx.BadRequest(w, "invalid vendorId")
		return
	}

	ls, err := h.svc.ListByVendor(r.Context(), vendorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(ls))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	var req updateListingRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	l, err := h.svc.Update(r.Context(), id, catalog.UpdateParams{
		ServiceName: req.ServiceName,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, err.Error())
	default:
		httpx.Internal(w, r, err)
	}
}
