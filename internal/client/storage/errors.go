package storage

import (
	"errors"
	"fmt"
)

var (
	ErrUploadFailed = errors.New("could not upload image")
	ErrTooLarge     = errors.New("file too large")
)

// CheckSize rejects blobs above max bytes. A non-positive max disables the
// check.
func CheckSize(b Blob, max int64) error {
	if max > 0 && b.Size > max {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, b.Name, b.Size, max)
	}
	return nil
}
