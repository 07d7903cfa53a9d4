package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored object does not exist in the backend.
var ErrNotFound = errors.New("stored file not found")

// FileInfo describes a stored attachment. StoredName is the backend key,
// OriginalName is what the uploader called it.
type FileInfo struct {
	StoredName   string
	OriginalName string
	MimeType     string
	Size         int64
}

// FileStore abstracts the attachment backend. Implementations: local disk
// and S3-compatible object storage.
type FileStore interface {
	Save(ctx context.Context, r io.Reader, originalName, mimeType string) (FileInfo, error)
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	Delete(ctx context.Context, storedName string) error
}
