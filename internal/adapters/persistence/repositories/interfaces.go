package repositories

import (
	"context"
)

// SnapshotRepository stores opaque snapshot payloads under a stable key.
// Get returns domain.ErrSnapshotNotFound when nothing was saved yet.
type SnapshotRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Ping(ctx context.Context) error
}
