package services

import (
	"context"

	"cafechain/internal/core/domain"
)

// SnapshotPersister is the persistence boundary the store writes through.
// Implementations swallow their own errors: Load reports absence instead of
// failing and Save never blocks the caller on a broken backend.
type SnapshotPersister interface {
	Load(ctx context.Context) (*domain.State, bool)
	Save(ctx context.Context, state domain.State)
}

// Dispatcher is the narrow store view handed to the redemption flow and
// HTTP handlers
type Dispatcher interface {
	Dispatch(ctx context.Context, action domain.Action) bool
	GetState() domain.State
}

// SnapshotPruner deletes old snapshot revisions (MySQL backend)
type SnapshotPruner interface {
	Prune(ctx context.Context, key string, keep int) (int64, error)
}
