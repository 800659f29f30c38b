package repositories

import (
	"context"
	"errors"

	"cafechain/internal/adapters/persistence/models"
	"cafechain/internal/core/domain"

	"gorm.io/gorm"
)

// SQLSnapshotRepository is backed by MySQL through gorm. Each Put appends a
// revision; Prune trims old ones.
type SQLSnapshotRepository struct {
	db *gorm.DB
}

// NewSQLSnapshotRepository creates a gorm-backed snapshot repository
func NewSQLSnapshotRepository(db *gorm.DB) *SQLSnapshotRepository {
	return &SQLSnapshotRepository{db: db}
}

// Get returns the newest payload for key
func (r *SQLSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var rec models.StateSnapshot
	err := r.db.WithContext(ctx).
		Where("snapshot_key = ?", key).
		Order("id DESC").
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	return rec.Payload, nil
}

// Put inserts a new revision
func (r *SQLSnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	return r.db.WithContext(ctx).Create(&models.StateSnapshot{
		SnapshotKey: key,
		Payload:     payload,
	}).Error
}

// Prune deletes all but the newest keep revisions of key (cleanup job)
func (r *SQLSnapshotRepository) Prune(ctx context.Context, key string, keep int) (int64, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.StateSnapshot{}).
		Where("snapshot_key = ?", key).
		Order("id DESC").
		Limit(keep).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) < keep {
		return 0, nil
	}

	oldestKept := ids[len(ids)-1]
	res := r.db.WithContext(ctx).
		Where("snapshot_key = ? AND id < ?", key, oldestKept).
		Delete(&models.StateSnapshot{})
	return res.RowsAffected, res.Error
}

// Ping checks the database connection
func (r *SQLSnapshotRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
