package repositories

import (
	"context"
	"errors"

	"cafechain/internal/core/domain"

	"github.com/go-redis/redis/v8"
)

// RedisSnapshotRepository keeps the latest snapshot under a single Redis key
type RedisSnapshotRepository struct {
	client redis.UniversalClient
}

// NewRedisSnapshotRepository creates a Redis-backed snapshot repository
func NewRedisSnapshotRepository(client redis.UniversalClient) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{client: client}
}

func (r *RedisSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *RedisSnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, key, payload, 0).Err()
}

func (r *RedisSnapshotRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
