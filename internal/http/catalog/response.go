package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/vivaahaverse/vivaah/internal/catalog"
)

type listingResponse struct {
	ID          uuid.UUID  `json:"id"`
	VendorID    uuid.UUID  `json:"vendorId"`
	VendorName  string     `json:"vendorName,omitempty"`
	ServiceName string     `json:"serviceName"`
	Category    string     `json:"category"`
	Price       int64      `json:"price"`
	PriceType   string     `json:"priceType,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(l *catalog.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		VendorID:    l.VendorID,
		VendorName:  l.VendorName,
		ServiceName: l.ServiceName,
		Category:    l.Category,
		Price:       l.Price,
		PriceType:   l.PriceType,
		Description: l.Description,
		Location:    l.Location,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toResponseList(ls []*catalog.Listing) []listingResponse {
	resp := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		resp = append(resp, toResponse(l))
	}

	return resp
}
