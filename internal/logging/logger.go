// Package logging defines the structured logger used across dealerdash and
// its slog and zap backends.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrijs2005/dealerdash/internal/common"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key–value pairs:
//
//	log.Info(ctx, "upload finished", "task", id, "url", url)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the named backend writing to w. format is "json"
// or "text"; anything else falls back to text.
func New(backend, format string, w io.Writer) (Logger, error) {
	switch backend {
	case "", BackendSlog:
		var h slog.Handler
		if format == "json" {
			h = slog.NewJSONHandler(w, nil)
		} else {
			h = slog.NewTextHandler(w, nil)
		}
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		return NewZapWriterLogger(w, format), nil
	default:
		return nil, fmt.Errorf("logging: %w: %q", common.ErrUnknownBackend, backend)
	}
}
