package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateListing(ctx context.Context, l *Listing) error
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	ListListings(ctx context.Context, filter ListFilter) ([]*Listing, error)
	UpdateListing(ctx context.Context, l *Listing) error
	DeleteListing(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	VendorID    uuid.UUID
	VendorName  string
	ServiceName string
	Category    string
	Price       int64
	PriceType   string
	Description string
	Location    string
}

// UpdateParams changes only the non-nil fields.
type UpdateParams struct {
	ServiceName *string
	Category    *string
	Price       *int64
	Description *string
}

type ListFilter struct {
	VendorID *uuid.UUID
	Category *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Listing, error) {
	name := strings.TrimSpace(params.ServiceName)

	if params.VendorID == uuid.Nil || name == "" {
		return nil, fmt.Errorf("%w: vendorId and serviceName are required", ErrValidation)
	}

	if params.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	l := &Listing{
		VendorID:    params.VendorID,
		VendorName:  params.VendorName,
		ServiceName: name,
		Category:    strings.TrimSpace(params.Category),
		Price:       params.Price,
		PriceType:   params.PriceType,
		Description: params.Description,
		Location:    params.Location,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.CreateListing(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// List returns all listings, optionally restricted to one category.
func (s *Service) List(ctx context.Context, category string) ([]*Listing, error) {
	var filter ListFilter

	if c := strings.TrimSpace(category); c != "" {
		filter.Category = &c
	}

	return s.repo.ListListings(ctx, filter)
}

func (s *Service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Listing, error) {
	return s.repo.ListListings(ctx, ListFilter{VendorID: &vendorID})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.repo.GetListing(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Listing, error) {
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.ServiceName != nil {
		name := strings.TrimSpace(*params.ServiceName)
		if name == "" {
			return nil, fmt.Errorf("%w: serviceName cannot be empty", ErrValidation)
		}

		l.ServiceName = name
	}

	if params.Price != nil {
		if *params.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}

		l.Price = *params.Price
	}

	if params.Category != nil {
		l.Category = strings.TrimSpace(*params.Category)
	}

	if params.Description != nil {
		l.Description = *params.Description
	}

	if err := s.repo.UpdateListing(ctx, l); err != nil {
		return nil, err
	}

	return l, nil
}

// Delete removes a listing. Deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteListing(ctx, id)
}
