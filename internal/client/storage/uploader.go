package storage

import "context"

// Uploader stores a blob and returns the public URL of the stored object.
// progress may be nil.
type Uploader interface {
	Upload(ctx context.Context, blob Blob, progress ProgressFunc) (string, error)
}
