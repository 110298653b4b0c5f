package attachment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists attachment bytes. The metadata row keeps the returned path.
type Store interface {
	Save(name string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// DiskStore implements Store on the local filesystem under a base directory.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a Store rooted at baseDir, creating it if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save writes the stream to a new file named by a fresh UUID, keeping the
// original name's extension. Returns the path relative to the base directory.
func (s *DiskStore) Save(name string, r io.Reader) (string, int64, error) {
	rel := uuid.New().String() + filepath.Ext(name)

	f, err := os.Create(filepath.Join(s.baseDir, rel))
	if err != nil {
		return "", 0, fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("writing upload file: %w", err)
	}

	return rel, size, nil
}

// Open returns a reader for a stored file.
func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.baseDir, path))
	if err != nil {
		return nil, fmt.Errorf("opening stored file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(filepath.Join(s.baseDir, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stored file: %w", err)
	}
	return nil
}
