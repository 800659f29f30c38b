package services

import (
	"context"
	"errors"
	"testing"

	"cafechain/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	key   string
	keep  int
	calls int
	err   error
}

func (f *fakePruner) Prune(_ context.Context, key string, keep int) (int64, error) {
	f.calls++
	f.key = key
	f.keep = keep
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func TestRetentionRunOnce(t *testing.T) {
	p := &fakePruner{}
	svc := NewRetentionService(p, "cafechain:cafe:state", 20, "@hourly", logger.Discard())

	n, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, "cafechain:cafe:state", p.key)
	assert.Equal(t, 20, p.keep)
}

func TestRetentionKeepsAtLeastOne(t *testing.T) {
	p := &fakePruner{}
	svc := NewRetentionService(p, "k", 0, "@hourly", logger.Discard())

	_, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.keep)
}

func TestRetentionWrapsPrunerError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewRetentionService(&fakePruner{err: boom}, "k", 5, "@hourly", logger.Discard())

	_, err := svc.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRetentionStartRejectsBadSchedule(t *testing.T) {
	svc := NewRetentionService(&fakePruner{}, "k", 5, "every tuesday-ish", logger.Discard())
	assert.Error(t, svc.Start())
}

func TestRetentionStartStop(t *testing.T) {
	svc := NewRetentionService(&fakePruner{}, "k", 5, "@every 1h", logger.Discard())
	require.NoError(t, svc.Start())
	svc.Stop()
}
