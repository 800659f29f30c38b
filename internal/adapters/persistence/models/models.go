package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// State snapshots
// ============================================================

// StateSnapshot is one saved revision of the application state.
// Every save inserts a row; the newest row per key wins on load.
type StateSnapshot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SnapshotKey string    `gorm:"size:191;index;not null" json:"snapshot_key"`
	Payload     []byte    `gorm:"type:longblob;not null" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (StateSnapshot) TableName() string {
	return "state_snapshots"
}

// AutoMigrate creates the snapshot table if it does not exist
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&StateSnapshot{})
}
