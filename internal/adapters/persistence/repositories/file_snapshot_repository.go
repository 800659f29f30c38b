package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cafechain/internal/core/domain"
)

// FileSnapshotRepository writes one JSON file per key inside dir.
// Writes go to a temp file and are renamed into place.
type FileSnapshotRepository struct {
	mu  sync.Mutex
	dir string
}

// NewFileSnapshotRepository creates a file-backed snapshot repository
func NewFileSnapshotRepository(dir string) *FileSnapshotRepository {
	return &FileSnapshotRepository{dir: dir}
}

// Path returns the file that holds key
func (r *FileSnapshotRepository) Path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(r.dir, name+".json")
}

func (r *FileSnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *FileSnapshotRepository) Put(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), r.Path(key))
}

// Ping verifies the directory exists or can be created
func (r *FileSnapshotRepository) Ping(context.Context) error {
	return os.MkdirAll(r.dir, 0o755)
}
