package persistence

import (
	"context"
	"errors"
	"testing"

	"cafechain/internal/adapters/persistence/repositories"
	"cafechain/internal/core/domain"
	"cafechain/internal/pkg/logger"
	"cafechain/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRepository fails every call with err
type failingRepository struct{ err error }

func (f failingRepository) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingRepository) Put(context.Context, string, []byte) error   { return f.err }
func (f failingRepository) Ping(context.Context) error                  { return f.err }

func TestAdapterSaveThenLoad(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	a := NewAdapter(repositories.NewMemorySnapshotRepository(), "cafechain:test", logger.Discard(), m)
	ctx := context.Background()

	_, ok := a.Load(ctx)
	assert.False(t, ok)

	in := sampleState()
	a.Save(ctx, in)
	out, ok := a.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, in, *out)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotWrites))
}

func TestAdapterSaveOverwrites(t *testing.T) {
	a := NewAdapter(repositories.NewMemorySnapshotRepository(), "k", logger.Discard(), nil)
	ctx := context.Background()

	first := sampleState()
	a.Save(ctx, first)
	second := sampleState()
	second.IsOpen = false
	a.Save(ctx, second)

	out, ok := a.Load(ctx)
	require.True(t, ok)
	assert.False(t, out.IsOpen)
}

func TestAdapterSwallowsBackendErrors(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	a := NewAdapter(failingRepository{err: errors.New("disk full")}, "k", logger.Discard(), m)
	ctx := context.Background()

	assert.NotPanics(t, func() { a.Save(ctx, sampleState()) })
	st, ok := a.Load(ctx)
	assert.Nil(t, st)
	assert.False(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("load")))
}

func TestAdapterNotFoundIsNotAFailure(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	a := NewAdapter(failingRepository{err: domain.ErrSnapshotNotFound}, "k", logger.Discard(), m)

	_, ok := a.Load(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PersistenceFailures.WithLabelValues("load")))
}

func TestAdapterCorruptSnapshotStartsFresh(t *testing.T) {
	repo := repositories.NewMemorySnapshotRepository()
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "k", []byte("{broken")))

	a := NewAdapter(repo, "k", logger.Discard(), nil)
	_, ok := a.Load(ctx)
	assert.False(t, ok)
}

func TestAdapterHealth(t *testing.T) {
	ok := NewAdapter(repositories.NewMemorySnapshotRepository(), "k", logger.Discard(), nil)
	assert.NoError(t, ok.Health(context.Background()))

	bad := NewAdapter(failingRepository{err: errors.New("conn refused")}, "k", logger.Discard(), nil)
	assert.ErrorIs(t, bad.Health(context.Background()), domain.ErrSnapshotStoreUnhealthy)
}
