package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("expense not found")
	ErrValidation = errors.New("invalid expense")
)

type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Category    string
	Amount      int64
	Description string
	Date        time.Time
	CreatedAt   time.Time
}
