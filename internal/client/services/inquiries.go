package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// InquiryService serves the admin-only overview pages.
type InquiryService interface {
	Stats(ctx context.Context) (models.Stats, error)
	Bookings() *Paginator[models.Booking]
	DeleteBooking(ctx context.Context, id string) error
	Dealers(ctx context.Context) ([]models.DealerApplication, error)
	DeleteDealer(ctx context.Context, id string) error
}

type inquiryService struct {
	api      InquiryAPI
	pageSize int
	log      logging.Logger
}

func NewInquiryService(api InquiryAPI, pageSize int, log logging.Logger) InquiryService {
	if log == nil {
		log = logging.Discard()
	}
	return &inquiryService{api: api, pageSize: pageSize, log: log}
}

func (s *inquiryService) Stats(ctx context.Context) (models.Stats, error) {
	st, err := s.api.Stats(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return st, nil
}

func (s *inquiryService) Bookings() *Paginator[models.Booking] {
	return NewPaginator[models.Booking](s.api.Bookings, s.pageSize)
}

func (s *inquiryService) DeleteBooking(ctx context.Context, id string) error {
	return s.delete(ctx, "bookings", id)
}

func (s *inquiryService) Dealers(ctx context.Context) ([]models.DealerApplication, error) {
	d, err := s.api.Dealers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dealers: %w", err)
	}
	return d, nil
}

func (s *inquiryService) DeleteDealer(ctx context.Context, id string) error {
	return s.delete(ctx, "dealers", id)
}

func (s *inquiryService) delete(ctx context.Context, name, id string) error {
	res, _ := client.Lookup(name)
	if err := s.api.Delete(ctx, res, id, ""); err != nil {
		return fmt.Errorf("delete %s %s: %w", name, id, err)
	}
	s.log.Info(ctx, "inquiry deleted", "resource", name, "id", id)
	return nil
}
