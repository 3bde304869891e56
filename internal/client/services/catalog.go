package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/client/upload"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// CatalogService lists, opens and deletes catalog records.
type CatalogService interface {
	Listing(res client.Resource) *Paginator[models.Record]
	Get(ctx context.Context, res client.Resource, id string) (models.Record, error)
	Delete(ctx context.Context, res client.Resource, id string) error
	NewEditor(res client.Resource) *Editor
	OpenEditor(ctx context.Context, res client.Resource, id string) (*Editor, error)
}

// CatalogOptions tune editors created by the service.
type CatalogOptions struct {
	PageSize      int
	MaxConcurrent int
	MaxBlobSize   int64
	// UserID returns the signed-in user's id for routes that need it.
	UserID func() string
	Log    logging.Logger
}

type catalogService struct {
	api      CatalogAPI
	uploader storage.Uploader
	opts     CatalogOptions
	log      logging.Logger
}

func NewCatalogService(api CatalogAPI, uploader storage.Uploader, opts CatalogOptions) CatalogService {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	if opts.UserID == nil {
		opts.UserID = func() string { return "" }
	}
	return &catalogService{api: api, uploader: uploader, opts: opts, log: log}
}

// Listing pages through res. Resources without server-side paging are
// fetched whole, once.
func (s *catalogService) Listing(res client.Resource) *Paginator[models.Record] {
	fetch := func(ctx context.Context, start int) ([]models.Record, error) {
		return s.api.List(ctx, res, start)
	}
	if !res.Paginated {
		return NewSinglePage[models.Record](fetch)
	}
	return NewPaginator[models.Record](fetch, s.opts.PageSize)
}

func (s *catalogService) Get(ctx context.Context, res client.Resource, id string) (models.Record, error) {
	rec, err := s.api.Get(ctx, res, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", res.Name, id, err)
	}
	return rec, nil
}

func (s *catalogService) Delete(ctx context.Context, res client.Resource, id string) error {
	if err := s.api.Delete(ctx, res, id, s.opts.UserID()); err != nil {
		return fmt.Errorf("delete %s %s: %w", res.Name, id, err)
	}
	s.log.Info(ctx, "record deleted", "resource", res.Name, "id", id)
	return nil
}

// NewEditor starts a create form for res.
func (s *catalogService) NewEditor(res client.Resource) *Editor {
	return &Editor{
		api:      s.api,
		res:      res,
		userID:   s.opts.UserID,
		pipeline: upload.NewPipeline(s.uploader, s.pipelineOptions(res)),
		draft:    upload.NewDraft(RequiredFields(res.Name)...),
	}
}

// OpenEditor loads record id and starts an edit form pre-filled with it.
// Existing images seed the upload URL list.
func (s *catalogService) OpenEditor(ctx context.Context, res client.Resource, id string) (*Editor, error) {
	if !res.CanUpdate() {
		return nil, fmt.Errorf("%s cannot be edited", res.Name)
	}
	rec, err := s.Get(ctx, res, id)
	if err != nil {
		return nil, err
	}

	e := s.NewEditor(res)
	e.recordID = id
	e.draft = upload.EditDraft(rec, RequiredFields(res.Name)...)
	if res.ImageField != "" {
		e.pipeline.SeedURLs(rec.Strings(res.ImageField))
	}
	return e, nil
}

func (s *catalogService) pipelineOptions(res client.Resource) upload.Options {
	mode := upload.Replace
	if res.MultiImage {
		mode = upload.Append
	}
	return upload.Options{
		Mode:          mode,
		ImageField:    res.ImageField,
		MaxConcurrent: s.opts.MaxConcurrent,
		MaxBlobSize:   s.opts.MaxBlobSize,
		Log:           s.log.With("resource", res.Name),
	}
}
