package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/dealerdash/internal/common"
)

// PageFunc fetches the page starting at startIndex.
type PageFunc[T any] func(ctx context.Context, startIndex int) ([]T, error)

// Paginator accumulates a "load more" listing. The next page starts at the
// number of items already loaded; more pages are assumed to exist while the
// last fetched page was full.
type Paginator[T any] struct {
	fetch    PageFunc[T]
	pageSize int
	single   bool

	mu      sync.Mutex
	items   []T
	hasMore bool
}

func NewPaginator[T any](fetch PageFunc[T], pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	return &Paginator[T]{fetch: fetch, pageSize: pageSize}
}

// NewSinglePage returns a Paginator for endpoints that always return the
// whole collection. It never has more to load.
func NewSinglePage[T any](fetch PageFunc[T]) *Paginator[T] {
	return &Paginator[T]{fetch: fetch, single: true}
}

// Load discards loaded items and fetches the first page.
func (p *Paginator[T]) Load(ctx context.Context) error {
	page, err := p.fetch(ctx, 0)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = page
	p.hasMore = !p.single && len(page) >= p.pageSize
	return nil
}

// LoadMore appends the next page and returns how many items it added.
func (p *Paginator[T]) LoadMore(ctx context.Context) (int, error) {
	p.mu.Lock()
	if p.single {
		p.mu.Unlock()
		return 0, nil
	}
	start := len(p.items)
	p.mu.Unlock()

	page, err := p.fetch(ctx, start)
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, page...)
	p.hasMore = len(page) >= p.pageSize
	return len(page), nil
}

func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

func (p *Paginator[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Remove drops loaded items matching drop, e.g. after a deletion.
func (p *Paginator[T]) Remove(drop func(T) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.items[:0]
	for _, it := range p.items {
		if !drop(it) {
			kept = append(kept, it)
		}
	}
	removed := len(p.items) - len(kept)
	p.items = kept
	return removed
}
