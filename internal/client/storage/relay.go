package storage

import (
	"context"
	"fmt"
	"io"
)

// ImageRelay is the API endpoint that accepts an uploaded file.
type ImageRelay interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// RelayUploader uploads through the API instead of talking to storage
// directly.
type RelayUploader struct {
	relay ImageRelay
}

func NewRelayUploader(relay ImageRelay) *RelayUploader {
	return &RelayUploader{relay: relay}
}

func (u *RelayUploader) Upload(ctx context.Context, blob Blob, progress ProgressFunc) (string, error) {
	rc, err := blob.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrUploadFailed, blob.Name, err)
	}
	defer rc.Close()

	url, err := u.relay.UploadImage(ctx, blob.Name, newProgressReader(rc, blob.Size, progress))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return url, nil
}
