package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/expense"
)

type expenseResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func toResponseList(es []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, 0, len(es))
	for _, e := range es {
		resp = append(resp, toResponse(e))
	}

	return resp
}
