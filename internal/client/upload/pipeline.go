package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// Mode says how finished uploads affect the URL list.
type Mode int

const (
	// Append collects every successful URL (multi-image forms).
	Append Mode = iota
	// Replace keeps only the URL of the most recently started upload
	// (single-image forms).
	Replace
)

// SubmitFunc sends the prepared payload to the API.
type SubmitFunc func(ctx context.Context, payload map[string]any) (json.RawMessage, error)

// Event reports a task transition.
type Event struct {
	BatchID string
	Task    Task
}

// Message is a dismissible notice shown to the user, e.g. a failed upload.
type Message struct {
	ID     int
	TaskID string
	Text   string
}

type Options struct {
	Mode Mode
	// ImageField is the draft path URLs are merged into on submit. Empty
	// disables merging.
	ImageField string
	// MaxConcurrent bounds simultaneous uploads; <= 0 means unbounded.
	MaxConcurrent int
	// MaxBlobSize rejects larger files before uploading; <= 0 disables.
	MaxBlobSize int64
	Log         logging.Logger
}

type Pipeline struct {
	uploader storage.Uploader
	opts     Options
	log      logging.Logger

	mu        sync.Mutex
	gen       uint64
	seq       uint64 // of the most recently started batch
	selection []storage.Blob
	batches   []*Batch
	urls      []string
	messages  []Message
	nextMsg   int
	listeners map[int]func(Event)
	nextSub   int
}

func NewPipeline(uploader storage.Uploader, opts Options) *Pipeline {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{
		uploader:  uploader,
		opts:      opts,
		log:       log.With("component", "upload"),
		listeners: make(map[int]func(Event)),
	}
}

// SelectFiles replaces the pending selection. Nothing is uploaded.
func (p *Pipeline) SelectFiles(blobs []storage.Blob) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = slices.Clone(blobs)
}

func (p *Pipeline) Selection() []storage.Blob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.selection)
}

// StartUpload creates one Pending task per blob (the current selection when
// blobs is empty) and starts them. It returns without waiting for any of
// them to finish.
func (p *Pipeline) StartUpload(ctx context.Context, blobs []storage.Blob) (*Batch, error) {
	p.mu.Lock()
	if len(blobs) == 0 {
		blobs = p.selection
	}
	if len(blobs) == 0 {
		p.mu.Unlock()
		return nil, ErrNothingSelected
	}
	if p.opts.Mode == Replace && len(blobs) > 1 {
		p.mu.Unlock()
		return nil, ErrSingleImage
	}

	p.seq++
	b := &Batch{
		ID:    uuid.NewString(),
		seq:   p.seq,
		mu:    &p.mu,
		tasks: make([]*task, len(blobs)),
		done:  make(chan struct{}),
	}
	for i, blob := range blobs {
		b.tasks[i] = &task{
			Task: Task{ID: uuid.NewString(), Name: blob.Name, Status: Pending, Total: blob.Size},
			blob: blob,
		}
	}
	p.batches = append(p.batches, b)
	p.selection = nil
	gen := p.gen

	events := make([]Event, len(b.tasks))
	for i, t := range b.tasks {
		events[i] = Event{BatchID: b.ID, Task: t.Task}
	}
	listeners := p.listenersLocked()
	p.mu.Unlock()

	notify(listeners, events...)
	p.log.Info(ctx, "upload batch started", "batch", b.ID, "files", len(blobs))

	go p.run(ctx, gen, b)
	return b, nil
}

func (p *Pipeline) run(ctx context.Context, gen uint64, b *Batch) {
	g := new(errgroup.Group)
	if p.opts.MaxConcurrent > 0 {
		g.SetLimit(p.opts.MaxConcurrent)
	}
	for _, t := range b.tasks {
		g.Go(func() error {
			p.upload(ctx, gen, b, t)
			return nil
		})
	}
	_ = g.Wait()
	close(b.done)
}

func (p *Pipeline) upload(ctx context.Context, gen uint64, b *Batch, t *task) {
	p.update(gen, b, t, func() bool { t.start(); return true })

	if err := storage.CheckSize(t.blob, p.opts.MaxBlobSize); err != nil {
		p.finish(ctx, gen, b, t, "", err)
		return
	}

	url, err := p.uploader.Upload(ctx, t.blob, func(done, total int64) {
		p.update(gen, b, t, func() bool { return t.progress(done, total) })
	})
	p.finish(ctx, gen, b, t, url, err)
}

// update mutates t under the lock and publishes the result if the pipeline
// still owns the batch.
func (p *Pipeline) update(gen uint64, b *Batch, t *task, mutate func() bool) {
	p.mu.Lock()
	changed := mutate()
	ev := Event{BatchID: b.ID, Task: t.Task}
	var listeners []func(Event)
	if changed && gen == p.gen {
		listeners = p.listenersLocked()
	}
	p.mu.Unlock()

	notify(listeners, ev)
}

func (p *Pipeline) finish(ctx context.Context, gen uint64, b *Batch, t *task, url string, err error) {
	p.mu.Lock()
	if err != nil {
		t.fail(err)
	} else {
		t.succeed(url)
	}
	ev := Event{BatchID: b.ID, Task: t.Task}
	superseded := false

	// abandoned pipelines keep task state but no longer collect results
	if gen != p.gen {
		p.mu.Unlock()
		p.log.Debug(ctx, "ignoring upload for abandoned pipeline", "task", t.ID, "status", t.Status)
		return
	}

	if err != nil {
		p.nextMsg++
		p.messages = append(p.messages, Message{
			ID:     p.nextMsg,
			TaskID: t.ID,
			Text:   fmt.Sprintf("Could not upload %s (%v)", t.Name, err),
		})
	} else if p.opts.Mode == Replace {
		// only the latest selection may replace the image
		if b.seq == p.seq {
			p.urls = []string{url}
		} else {
			superseded = true
		}
	} else {
		p.urls = append(p.urls, url)
	}
	listeners := p.listenersLocked()
	p.mu.Unlock()

	switch {
	case err != nil:
		p.log.Warn(ctx, "upload failed", "task", t.ID, "file", t.Name, "error", err)
	case superseded:
		p.log.Debug(ctx, "ignoring upload from superseded batch", "task", t.ID, "file", t.Name)
	default:
		p.log.Info(ctx, "upload finished", "task", t.ID, "file", t.Name, "url", url)
	}
	notify(listeners, ev)
}

// Pending reports whether any started task is still in flight.
func (p *Pipeline) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pendingLocked()
}

func (p *Pipeline) pendingLocked() bool {
	for _, b := range p.batches {
		if b.pendingLocked() {
			return true
		}
	}
	return false
}

// Submit checks the draft locally and, if it passes, hands its payload to
// submit. Uploaded URLs are merged into the image field first. Errors from
// submit are returned unchanged and the URL list is kept for a retry; on
// success the pipeline is reset.
func (p *Pipeline) Submit(ctx context.Context, d Draft, submit SubmitFunc) (json.RawMessage, error) {
	p.mu.Lock()
	if p.pendingLocked() {
		p.mu.Unlock()
		return nil, ErrUploadPending
	}
	urls := slices.Clone(p.urls)
	p.mu.Unlock()

	d = p.mergeURLs(d, urls)

	if !d.Changed() {
		return nil, ErrNoChanges
	}
	if missing := d.Missing(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	reply, err := submit(ctx, d.Payload())
	if err != nil {
		p.log.Warn(ctx, "submit failed", "error", err)
		return nil, err
	}

	p.mu.Lock()
	p.batches = nil
	p.urls = nil
	p.mu.Unlock()
	return reply, nil
}

func (p *Pipeline) mergeURLs(d Draft, urls []string) Draft {
	if p.opts.ImageField == "" {
		return d
	}
	if p.opts.Mode == Replace {
		if len(urls) == 0 {
			return d
		}
		return Apply(d, p.opts.ImageField, urls[len(urls)-1])
	}
	list := make([]any, len(urls))
	for i, u := range urls {
		list[i] = u
	}
	return Apply(d, p.opts.ImageField, list)
}

// Abandon detaches the pipeline from everything in flight. Running uploads
// finish on their own but their results and events are dropped.
func (p *Pipeline) Abandon() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.selection = nil
	p.batches = nil
	p.urls = nil
	p.messages = nil
	p.listeners = make(map[int]func(Event))
}

// SeedURLs sets the URL list, e.g. from the images of a record being edited.
func (p *Pipeline) SeedURLs(urls []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = slices.Clone(urls)
}

func (p *Pipeline) URLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.urls)
}

// RemoveURL drops every occurrence of url and reports whether any existed.
func (p *Pipeline) RemoveURL(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.urls)
	p.urls = slices.DeleteFunc(p.urls, func(u string) bool { return u == url })
	return len(p.urls) != n
}

func (p *Pipeline) ClearURLs() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = nil
}

func (p *Pipeline) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.messages)
}

func (p *Pipeline) DismissMessage(id int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.messages)
	p.messages = slices.DeleteFunc(p.messages, func(m Message) bool { return m.ID == id })
	return len(p.messages) != n
}

// Subscribe registers fn for task events. fn runs on upload goroutines,
// outside the pipeline lock.
func (p *Pipeline) Subscribe(fn func(Event)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.listeners[id] = fn
	gen := p.gen
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if gen == p.gen {
			delete(p.listeners, id)
		}
	}
}

func (p *Pipeline) listenersLocked() []func(Event) {
	if len(p.listeners) == 0 {
		return nil
	}
	out := make([]func(Event), 0, len(p.listeners))
	for _, fn := range p.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(Event), events ...Event) {
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
