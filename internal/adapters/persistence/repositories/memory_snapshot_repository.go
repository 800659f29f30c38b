package repositories

import (
	"context"
	"sync"

	"cafechain/internal/core/domain"
)

// MemorySnapshotRepository keeps payloads in process memory (dev and tests)
type MemorySnapshotRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemorySnapshotRepository creates an empty in-memory repository
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{items: make(map[string][]byte)}
}

func (r *MemorySnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return append([]byte(nil), b...), nil
}

func (r *MemorySnapshotRepository) Put(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = append([]byte(nil), payload...)
	return nil
}

func (r *MemorySnapshotRepository) Ping(context.Context) error {
	return nil
}
