package services

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

// CatalogAPI is the subset of the REST client used for catalog entities.
type CatalogAPI interface {
	List(ctx context.Context, res client.Resource, startIndex int) ([]models.Record, error)
	Get(ctx context.Context, res client.Resource, id string) (models.Record, error)
	Create(ctx context.Context, res client.Resource, body any) (json.RawMessage, error)
	Update(ctx context.Context, res client.Resource, id, userID string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, res client.Resource, id, userID string) error
	DeleteVehicleImages(ctx context.Context, id string, urls []string) error
}

// InquiryAPI is the subset of the REST client used for inquiries and stats.
type InquiryAPI interface {
	Stats(ctx context.Context) (models.Stats, error)
	Bookings(ctx context.Context, startIndex int) ([]models.Booking, error)
	Dealers(ctx context.Context) ([]models.DealerApplication, error)
	Delete(ctx context.Context, res client.Resource, id, userID string) error
}

// requiredFields are the form fields that must be filled before submit.
var requiredFields = map[string][]string{
	"vehicles":     {"name", "startingPrice", "speed", "range", "description"},
	"products":     {"name", "startingPrice"},
	"testimonials": {"name", "testimonial"},
	"posts":        {"title", "content"},
	"sliders":      {"image"},
	"brands":       {"name"},
	"services":     {"title"},
}

// RequiredFields returns the required form fields of a resource.
func RequiredFields(resource string) []string {
	return append([]string(nil), requiredFields[resource]...)
}
