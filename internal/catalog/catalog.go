package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("service not found")
	ErrValidation = errors.New("invalid service")
)

// Listing is a bookable vendor service.
type Listing struct {
	ID          uuid.UUID
	VendorID    uuid.UUID
	VendorName  string
	ServiceName string
	Category    string
	Price       int64
	PriceType   string
	Description string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
