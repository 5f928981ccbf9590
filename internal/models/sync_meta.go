package models

import (
	"fmt"
	"time"
)

// SyncMeta is generic key-value sync state, including the per-version
// incremental pull cursors.
type SyncMeta struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"size:255" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SyncMeta) TableName() string {
	return "sync_meta"
}

// SyncMeta keys.
const (
	SyncMetaSchemaVersion = "schema_version"
)

// TagSetCursorKey returns the sync meta key holding a version's last-seen
// tag set update timestamp.
func TagSetCursorKey(versionID string) string {
	return fmt.Sprintf("versions/%s/tagSets-updatedFrom", versionID)
}
