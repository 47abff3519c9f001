package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded evidence files and returns a retrievable location.
// The workflow engine only records the returned path; the real document store
// is an external collaborator behind this interface.
type Store interface {
	Save(fileName string, data []byte) (storedPath string, err error)
	Open(storedPath string) ([]byte, error)
	Delete(storedPath string) error
}

// DiskStore stores files under a base directory with uuid names so uploads
// can never collide or overwrite each other.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a disk store rooted at baseDir
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save writes data under a generated name, preserving the original extension
func (s *DiskStore) Save(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return name, nil
}

// Open reads a stored file back
func (s *DiskStore) Open(storedPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.baseDir, filepath.Base(storedPath)))
}

// Delete removes a stored file
func (s *DiskStore) Delete(storedPath string) error {
	return os.Remove(filepath.Join(s.baseDir, filepath.Base(storedPath)))
}
