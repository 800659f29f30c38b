package persistence

import (
	"context"
	"errors"
	"time"

	"cafechain/internal/adapters/persistence/repositories"
	"cafechain/internal/core/domain"
	"cafechain/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Adapter loads and saves full state snapshots under one stable key.
// It never returns errors to the store: failures are logged, counted and
// reported as "no snapshot" on load.
type Adapter struct {
	repo    repositories.SnapshotRepository
	key     string
	log     *logrus.Entry
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAdapter creates an adapter for key
func NewAdapter(repo repositories.SnapshotRepository, key string, log *logrus.Entry, m *metrics.Metrics) *Adapter {
	return &Adapter{
		repo:    repo,
		key:     key,
		log:     log.WithField("snapshot_key", key),
		metrics: m,
		now:     time.Now,
	}
}

// Load returns the saved snapshot, or false if none exists or it cannot be read
func (a *Adapter) Load(ctx context.Context) (*domain.State, bool) {
	raw, err := a.repo.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			a.metrics.PersistenceFailed("load")
			a.log.WithError(err).Warn("Snapshot load failed, starting fresh")
		}
		return nil, false
	}

	state, err := Decode(raw)
	if err != nil {
		a.metrics.PersistenceFailed("decode")
		a.log.WithError(err).Warn("Snapshot unreadable, starting fresh")
		return nil, false
	}
	return state, true
}

// Save overwrites the stored snapshot. Errors are swallowed.
func (a *Adapter) Save(ctx context.Context, state domain.State) {
	raw, err := Encode(state, a.now())
	if err != nil {
		a.metrics.PersistenceFailed("encode")
		a.log.WithError(err).Warn("Snapshot encode failed")
		return
	}
	if err := a.repo.Put(ctx, a.key, raw); err != nil {
		a.metrics.PersistenceFailed("save")
		a.log.WithError(err).Warn("Snapshot save failed")
		return
	}
	a.metrics.SnapshotWritten()
}

// Health reports whether the backend is reachable
func (a *Adapter) Health(ctx context.Context) error {
	if err := a.repo.Ping(ctx); err != nil {
		return errors.Join(domain.ErrSnapshotStoreUnhealthy, err)
	}
	return nil
}
