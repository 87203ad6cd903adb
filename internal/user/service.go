package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateBudgetLimit(ctx context.Context, id uuid.UUID, limit int64) (*User, error)
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, role string) (string, error)
	Verify(raw string) (uuid.UUID, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

type SignupParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UpdateBudgetParams struct {
	Limit int64
}

func (s *Service) Signup(ctx context.Context, params SignupParams) (*User, error) {
	email := normalizeEmail(params.Email)
	password := strings.TrimSpace(params.Password)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	role, err := ParseRole(params.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: role must be CLIENT or VENDOR", ErrValidation)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login returns the user and a signed access token. Unknown emails and wrong
// passwords fail with the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !checkPassword(u.PasswordHash, strings.TrimSpace(password)) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	return u, token, nil
}

// Authenticate resolves a token issued by Login to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	u, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}

	return u, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateBudget(ctx context.Context, id uuid.UUID, params UpdateBudgetParams) (*User, error) {
	if params.Limit < 0 {
		return nil, fmt.Errorf("%w: budget limit cannot be negative", ErrValidation)
	}

	return s.repo.UpdateBudgetLimit(ctx, id, params.Limit)
}
