package expense

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/expense"
	"github.com/vivaahaverse/vivaah/internal/http/httpx"
	"github.com/vivaahaverse/vivaah/internal/importer"
)

const maxImportSize = 10 << 20

type Handler struct {
	svc       *expense.Service
	importSvc *importer.Service
}

func NewHandler(svc *expense.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/import", h.importFile)
	r.Get("/user/{userId}", h.listByUser)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Amount      int64      `json:"amount"`
	Description string     `json:"description"`
	Date        httpx.Date `json:"date"`
}

type updateExpenseRequest struct {
	Title       *string     `json:"title"`
	Category    *string     `json:"category"`
	Amount      *int64      `json:"amount"`
	Description *string     `json:"description"`
	Date        *httpx.Date `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		UserID:      req.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date.Time,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		httpx.BadRequest(w, "invalid userId")
		return
	}

	es, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(es))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	var req updateExpenseRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	params := expense.UpdateParams{
		Title:       req.Title,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}

	if req.Date != nil {
		params.Date = new(req.Date.Time)
	}

	e, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(e))
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

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		httpx.BadRequest(w, "failed to parse form: "+err.Error())
		return
	}

	userID, err := uuid.Parse(r.FormValue("userId"))
	if err != nil {
		httpx.BadRequest(w, "userId field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		httpx.BadRequest(w, err.Error())
		return
	}

	es, err := h.svc.Import(r.Context(), userID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, importResponse{
		Imported: len(es),
		Expenses: toResponseList(es),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, expense.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error())
	case errors.Is(err, expense.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, err.Error())
	default:
		httpx.Internal(w, r, err)
	}
}
