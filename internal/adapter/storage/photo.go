package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"directory-service/pkg/security"
)

// PhotoStore writes uploaded user photos into a single directory.
// Files are keyed by their sanitized original name, so a second upload
// with the same name replaces the first.
type PhotoStore struct {
	fs  afero.Fs
	dir string
	log *zap.Logger
}

// NewPhotoStore creates a photo store rooted at dir on fs.
func NewPhotoStore(fs afero.Fs, dir string, log *zap.Logger) *PhotoStore {
	return &PhotoStore{fs: fs, dir: dir, log: log}
}

// NewOSPhotoStore creates a photo store on the local filesystem.
func NewOSPhotoStore(dir string, log *zap.Logger) *PhotoStore {
	return NewPhotoStore(afero.NewOsFs(), dir, log)
}

// Save writes content under the sanitized filename and returns the stored
// path, relative to the process working directory.
func (s *PhotoStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	name, err := security.SanitizeFilename(filename)
	if err != nil {
		return "", fmt.Errorf("invalid photo filename %q: %w", filename, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Error("failed to create upload directory", zap.String("dir", s.dir), zap.Error(err))
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	stored := path.Join(s.dir, name)
	f, err := s.fs.OpenFile(stored, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.log.Error("failed to open photo file", zap.String("path", stored), zap.Error(err))
		return "", fmt.Errorf("failed to open photo file: %w", err)
	}

	n, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.log.Error("failed to write photo file", zap.String("path", stored), zap.Error(err))
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	s.log.Info("photo stored", zap.String("path", stored), zap.Int64("bytes", n))
	return stored, nil
}

// Remove deletes a stored photo. Paths outside the store directory are
// rejected, and a photo that is already gone is not an error.
func (s *PhotoStore) Remove(ctx context.Context, stored string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path.Dir(path.Clean(stored)) != path.Clean(s.dir) {
		return fmt.Errorf("photo path %q is outside %q", stored, s.dir)
	}

	if err := s.fs.Remove(stored); err != nil && !os.IsNotExist(err) {
		s.log.Error("failed to remove photo file", zap.String("path", stored), zap.Error(err))
		return fmt.Errorf("failed to remove photo file: %w", err)
	}

	s.log.Info("photo removed", zap.String("path", stored))
	return nil
}

// Dir returns the directory photos are written to.
func (s *PhotoStore) Dir() string {
	return s.dir
}
