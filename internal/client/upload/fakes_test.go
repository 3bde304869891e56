package upload

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
)

type outcome struct {
	url string
	err error
}

// fakeUploader resolves each blob by name. Blobs with a gate block until a
// value is sent on it.
type fakeUploader struct {
	mu       sync.Mutex
	outcomes map[string]outcome
	gates    map[string]chan outcome
	delays   map[string]time.Duration

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		outcomes: map[string]outcome{},
		gates:    map[string]chan outcome{},
		delays:   map[string]time.Duration{},
	}
}

func (f *fakeUploader) succeed(name, url string) { f.outcomes[name] = outcome{url: url} }
func (f *fakeUploader) failWith(name string, err error) {
	f.outcomes[name] = outcome{err: err}
}
func (f *fakeUploader) gate(name string) chan outcome {
	ch := make(chan outcome, 1)
	f.gates[name] = ch
	return ch
}

func (f *fakeUploader) Upload(ctx context.Context, blob storage.Blob, progress storage.ProgressFunc) (string, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	res, ok := f.outcomes[blob.Name]
	gate := f.gates[blob.Name]
	delay := f.delays[blob.Name]
	f.mu.Unlock()

	if progress != nil {
		progress(blob.Size/2, blob.Size)
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if gate != nil {
		select {
		case res = <-gate:
			ok = true
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if !ok {
		return "", errors.New("no outcome configured for " + blob.Name)
	}
	if res.err == nil && progress != nil {
		progress(blob.Size, blob.Size)
	}
	return res.url, res.err
}

func blobs(names ...string) []storage.Blob {
	out := make([]storage.Blob, len(names))
	for i, n := range names {
		out[i] = storage.BytesBlob(n, []byte("0123456789"))
	}
	return out
}

type recordingSubmitter struct {
	mu       sync.Mutex
	calls    int
	payloads []map[string]any
	reply    json.RawMessage
	err      error
}

func (r *recordingSubmitter) submit(_ context.Context, payload map[string]any) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.payloads = append(r.payloads, payload)
	if r.err != nil {
		return nil, r.err
	}
	return r.reply, nil
}
