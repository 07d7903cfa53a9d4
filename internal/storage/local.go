package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps attachments on the local filesystem under a single
// upload directory. Stored names are uuid-prefixed to avoid collisions.
type LocalStore struct {
	dir    string
	logger *slog.Logger
}

func NewLocalStore(dir string, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

func (s *LocalStore) Save(_ context.Context, r io.Reader, originalName, mimeType string) (FileInfo, error) {
	storedName := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.dir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return FileInfo{}, fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("stored file on disk", "stored_name", storedName, "size", size)

	return FileInfo{
		StoredName:   storedName,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
	}, nil
}

func (s *LocalStore) Open(_ context.Context, storedName string) (io.ReadCloser, error) {
	// Base the lookup on the file name only so a stored name can never
	// escape the upload directory.
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(storedName)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, storedName string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(storedName)))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}
