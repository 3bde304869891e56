package upload

import (
	"context"
	"sync"
)

// Batch is the set of tasks started by one StartUpload call.
type Batch struct {
	ID string

	seq   uint64
	mu    *sync.Mutex // the owning pipeline's
	tasks []*task
	done  chan struct{}
}

// Tasks returns snapshots in selection order.
func (b *Batch) Tasks() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Task, len(b.tasks))
	for i, t := range b.tasks {
		out[i] = t.Task
	}
	return out
}

// Progress is the mean of the tasks' fractions.
func (b *Batch) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.tasks) == 0 {
		return 1
	}
	var sum float64
	for _, t := range b.tasks {
		sum += t.Fraction()
	}
	return sum / float64(len(b.tasks))
}

// Pending reports whether any task is not yet terminal.
func (b *Batch) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingLocked()
}

func (b *Batch) pendingLocked() bool {
	for _, t := range b.tasks {
		if !t.Status.Terminal() {
			return true
		}
	}
	return false
}

// Done is closed once every task is terminal.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until every task is terminal or ctx ends.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
