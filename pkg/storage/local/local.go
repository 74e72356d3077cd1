// Package local keeps attachments and archived CSV imports on the local
// filesystem under a single base directory.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultURLPrefix is the attachment download route served by the API.
const DefaultURLPrefix = "/api/v1/attachments"

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath  string
	urlPrefix string
}

// Option customises a Storage.
type Option func(*Storage)

// WithURLPrefix sets the download route returned by GenerateURL.
func WithURLPrefix(prefix string) Option {
	return func(s *Storage) {
		if prefix != "" {
			s.urlPrefix = strings.TrimSuffix(prefix, "/")
		}
	}
}

// New creates basePath if needed and returns a Storage rooted there.
func New(basePath string, opts ...Option) (*Storage, error) {
	if basePath == "" {
		basePath = "data/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Storage{basePath: basePath, urlPrefix: DefaultURLPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PutObject writes to a temporary file next to the target and renames it into
// place, so readers never see a partially written object. When size is known
// a short write is an error.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	fullPath := s.keyToPath(key)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	written, err := io.Copy(tmp, data)
	if err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if size > 0 && written != size {
		cleanup()
		return fmt.Errorf("write %s: wrote %d of %d bytes", key, written, size)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// GetObject opens the object. A missing key wraps os.ErrNotExist.
func (s *Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s: %w", key, os.ErrNotExist)
		}
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return f, nil
}

// DeleteObject removes the object and any directories left empty between it
// and the base path. Missing objects are not an error.
func (s *Storage) DeleteObject(ctx context.Context, key string) error {
	fullPath := s.keyToPath(key)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	base := filepath.Clean(s.basePath)
	for dir := filepath.Dir(fullPath); dir != base && strings.HasPrefix(dir, base); dir = filepath.Dir(dir) {
		if os.Remove(dir) != nil {
			break
		}
	}
	return nil
}

func (s *Storage) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// GenerateURL returns the API download route for the attachment id that
// prefixes key.
func (s *Storage) GenerateURL(ctx context.Context, key string, fileName string) (string, error) {
	fileID, _, _ := strings.Cut(key, "/")
	return s.urlPrefix + "/" + fileID, nil
}

func (s *Storage) Type() string {
	return "local"
}

// keyToPath maps a key below basePath; "../" segments cannot escape it.
func (s *Storage) keyToPath(key string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+key))
}
