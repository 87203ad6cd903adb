package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/budget"
	"github.com/vivaahaverse/vivaah/internal/user"
)

// userResponse never carries the password hash.
type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        user.Role `json:"role"`
	BudgetLimit int64     `json:"budgetLimit"`
	CreatedAt   time.Time `json:"createdAt"`
}

type loginResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type summaryResponse struct {
	Limit         int64 `json:"limit"`
	ExpensesTotal int64 `json:"expensesTotal"`
	BookingsTotal int64 `json:"bookingsTotal"`
	Spent         int64 `json:"spent"`
	Remaining     int64 `json:"remaining"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		BudgetLimit: u.BudgetLimit,
		CreatedAt:   u.CreatedAt,
	}
}

func toSummaryResponse(s *budget.Summary) summaryResponse {
	return summaryResponse{
		Limit:         s.Limit,
		ExpensesTotal: s.ExpensesTotal,
		BookingsTotal: s.BookingsTotal,
		Spent:         s.Spent,
		Remaining:     s.Remaining,
	}
}
