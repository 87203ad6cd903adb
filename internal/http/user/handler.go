package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/budget"
	"github.com/vivaahaverse/vivaah/internal/http/httpx"
	"github.com/vivaahaverse/vivaah/internal/user"
)

type Handler struct {
	svc     *user.Service
	budgets *budget.Service
}

func NewHandler(svc *user.Service, budgets *budget.Service) *Handler {
	return &Handler{svc: svc, budgets: budgets}
}

// AuthRoutes mounts signup and login.
func (h *Handler) AuthRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Get("/me", h.me)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Put("/{id}/budget", h.updateBudget)
	r.Get("/{id}/budget", h.budgetSummary)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateBudgetRequest struct {
	Limit *int64 `json:"limit"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	u, err := h.svc.Signup(r.Context(), user.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	u, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{User: toResponse(u), Token: token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken, "missing bearer token")
		return
	}

	u, err := h.svc.Authenticate(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	var req updateBudgetRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if req.Limit == nil {
		httpx.BadRequest(w, "limit is required")
		return
	}

	u, err := h.svc.UpdateBudget(r.Context(), id, user.UpdateBudgetParams{Limit: *req.Limit})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) budgetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "invalid id")
		return
	}

	s, err := h.budgets.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSummaryResponse(s))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, httpx.CodeEmailTaken, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidCredentials, err.Error())
	case errors.Is(err, user.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidToken, err.Error())
	case errors.Is(err, user.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, err.Error())
	default:
		httpx.Internal(w, r, err)
	}
}
