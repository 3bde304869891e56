package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Blob is a file selected for upload. Open may be called more than once;
// every call returns a fresh reader positioned at the start.
type Blob struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadSeekCloser, error)
}

// FileBlob describes a file on disk.
func FileBlob(path string) (Blob, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Blob{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return Blob{}, fmt.Errorf("%s is a directory", path)
	}
	return Blob{
		Name:        filepath.Base(path),
		Size:        st.Size(),
		ContentType: contentType(path),
		Open:        func() (io.ReadSeekCloser, error) { return os.Open(path) },
	}, nil
}

// BytesBlob wraps in-memory data.
func BytesBlob(name string, data []byte) Blob {
	return Blob{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType(name),
		Open: func() (io.ReadSeekCloser, error) {
			return nopCloser{bytes.NewReader(data)}, nil
		},
	}
}

type nopCloser struct{ io.ReadSeeker }

func (nopCloser) Close() error { return nil }

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
