package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/dealerdash/internal/client/client"
	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
)

type apiCall struct {
	Op, Resource, ID, UserID string
	Body                     any
}

// fakeAPI records every call and serves canned records.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	records map[string]models.Record
	pages   [][]models.Record
	err     error

	stats    models.Stats
	bookings [][]models.Booking
	dealers  []models.DealerApplication
}

func (f *fakeAPI) record(c apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) List(_ context.Context, res client.Resource, start int) ([]models.Record, error) {
	f.record(apiCall{Op: "list", Resource: res.Name, Body: start})
	if f.err != nil {
		return nil, f.err
	}
	idx := start / 9
	if idx >= len(f.pages) {
		return nil, nil
	}
	return f.pages[idx], nil
}

func (f *fakeAPI) Get(_ context.Context, res client.Resource, id string) (models.Record, error) {
	f.record(apiCall{Op: "get", Resource: res.Name, ID: id})
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return rec, nil
}

func (f *fakeAPI) Create(_ context.Context, res client.Resource, body any) (json.RawMessage, error) {
	f.record(apiCall{Op: "create", Resource: res.Name, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"new"}`), nil
}

func (f *fakeAPI) Update(_ context.Context, res client.Resource, id, userID string, body any) (json.RawMessage, error) {
	f.record(apiCall{Op: "update", Resource: res.Name, ID: id, UserID: userID, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"_id":"` + id + `"}`), nil
}

func (f *fakeAPI) Delete(_ context.Context, res client.Resource, id, userID string) error {
	f.record(apiCall{Op: "delete", Resource: res.Name, ID: id, UserID: userID})
	return f.err
}

func (f *fakeAPI) DeleteVehicleImages(_ context.Context, id string, urls []string) error {
	f.record(apiCall{Op: "delete-images", Resource: "vehicles", ID: id, Body: urls})
	return f.err
}

func (f *fakeAPI) Stats(context.Context) (models.Stats, error) {
	f.record(apiCall{Op: "stats"})
	return f.stats, f.err
}

func (f *fakeAPI) Bookings(_ context.Context, start int) ([]models.Booking, error) {
	f.record(apiCall{Op: "bookings", Body: start})
	if f.err != nil {
		return nil, f.err
	}
	idx := start / 9
	if idx >= len(f.bookings) {
		return nil, nil
	}
	return f.bookings[idx], nil
}

func (f *fakeAPI) Dealers(context.Context) ([]models.DealerApplication, error) {
	f.record(apiCall{Op: "dealers"})
	return f.dealers, f.err
}

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, b storage.Blob, progress storage.ProgressFunc) (string, error) {
	if progress != nil {
		progress(b.Size, b.Size)
	}
	return "https://cdn/" + b.Name, nil
}
