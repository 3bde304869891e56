package storage

import (
	"io"
	"sync"
)

// ProgressFunc receives the bytes transferred so far out of total.
type ProgressFunc func(transferred, total int64)

// progressReader reports the furthest offset read. The SDK may read the body
// twice (checksum, then send) by seeking back; reported progress never moves
// backwards.
type progressReader struct {
	r     io.ReadSeeker
	total int64
	fn    ProgressFunc

	mu   sync.Mutex
	pos  int64
	seen int64
}

func newProgressReader(r io.ReadSeeker, total int64, fn ProgressFunc) *progressReader {
	if fn == nil {
		fn = func(int64, int64) {}
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.pos += int64(n)
		advanced := p.pos > p.seen
		if advanced {
			p.seen = p.pos
		}
		seen := p.seen
		p.mu.Unlock()

		if advanced {
			p.fn(seen, p.total)
		}
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	n, err := p.r.Seek(offset, whence)
	if err == nil {
		p.mu.Lock()
		p.pos = n
		p.mu.Unlock()
	}
	return n, err
}
