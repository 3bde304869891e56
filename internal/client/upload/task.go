package upload

import (
	"github.com/dmitrijs2005/dealerdash/internal/client/storage"
)

type Status int

const (
	Pending Status = iota
	Uploading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Task is a snapshot of one file upload.
type Task struct {
	ID          string
	Name        string
	Status      Status
	Transferred int64
	Total       int64
	URL         string
	Err         error
}

// Fraction is the completed share in [0, 1].
func (t Task) Fraction() float64 {
	switch {
	case t.Status == Succeeded:
		return 1
	case t.Total <= 0:
		return 0
	}
	f := float64(t.Transferred) / float64(t.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// Percent is Fraction scaled to 0..100.
func (t Task) Percent() int {
	return int(t.Fraction() * 100)
}

// task is the mutable state behind a Task; it is guarded by the owning
// pipeline's mutex.
type task struct {
	Task
	blob storage.Blob
}

func (t *task) start() {
	t.Status = Uploading
}

func (t *task) progress(done, total int64) bool {
	if t.Status != Uploading {
		return false
	}
	t.Transferred, t.Total = done, total
	return true
}

func (t *task) succeed(url string) {
	t.Status = Succeeded
	t.URL = url
	if t.Total > 0 {
		t.Transferred = t.Total
	}
}

func (t *task) fail(err error) {
	t.Status = Failed
	t.Err = err
	t.Transferred = 0
}
