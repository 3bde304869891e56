package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/client/upload"
)

// Editor is one open create or edit form. It is not safe for concurrent
// use; uploads started through it run concurrently on their own.
type Editor struct {
	api      CatalogAPI
	res      client.Resource
	userID   func() string
	pipeline *upload.Pipeline
	draft    upload.Draft
	recordID string
}

func (e *Editor) Resource() client.Resource  { return e.res }
func (e *Editor) Pipeline() *upload.Pipeline { return e.pipeline }
func (e *Editor) Draft() upload.Draft        { return e.draft }
func (e *Editor) IsEdit() bool               { return e.recordID != "" }
func (e *Editor) RecordID() string           { return e.recordID }

// Set changes one field; path may address nested sections ("a.b").
func (e *Editor) Set(path string, value any) {
	e.draft = upload.Apply(e.draft, path, value)
}

// Upload starts uploading files for the image field.
func (e *Editor) Upload(ctx context.Context, blobs ...storage.Blob) (*upload.Batch, error) {
	if e.res.ImageField == "" {
		return nil, fmt.Errorf("%s has no images", e.res.Name)
	}
	return e.pipeline.StartUpload(ctx, blobs)
}

// RemoveImage drops an image from the form. For saved vehicles the image is
// detached on the server first.
func (e *Editor) RemoveImage(ctx context.Context, url string) error {
	if !slices.Contains(e.pipeline.URLs(), url) {
		return fmt.Errorf("image %s is not attached", url)
	}
	if e.IsEdit() && e.res.MultiImage {
		if err := e.api.DeleteVehicleImages(ctx, e.recordID, []string{url}); err != nil {
			return fmt.Errorf("remove image: %w", err)
		}
	}
	e.pipeline.RemoveURL(url)
	if !e.res.MultiImage {
		e.draft = upload.Apply(e.draft, e.res.ImageField, "")
	}
	return nil
}

// Submit creates or updates the record.
func (e *Editor) Submit(ctx context.Context) (json.RawMessage, error) {
	return e.pipeline.Submit(ctx, e.draft, e.submitFunc())
}

// Close abandons in-flight uploads.
func (e *Editor) Close() {
	e.pipeline.Abandon()
}

func (e *Editor) submitFunc() upload.SubmitFunc {
	if e.IsEdit() {
		return func(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
			return e.api.Update(ctx, e.res, e.recordID, e.userID(), payload)
		}
	}
	return func(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
		return e.api.Create(ctx, e.res, payload)
	}
}
