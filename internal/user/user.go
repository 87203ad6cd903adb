package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrValidation         = errors.New("invalid user")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleVendor Role = "VENDOR"
)

// ParseRole accepts any casing and defaults an empty role to CLIENT.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case "":
		return RoleClient, nil
	case RoleClient, RoleVendor:
		return r, nil
	default:
		return "", ErrValidation
	}
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	BudgetLimit  int64
	CreatedAt    time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
