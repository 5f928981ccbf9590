package db

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/versetag/internal/models"
)

// GetSyncMeta retrieves a sync metadata value.
func (db *DB) GetSyncMeta(key string) (string, error) {
	var meta models.SyncMeta
	err := db.First(&meta, "key = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetSyncMeta sets a sync metadata value.
func (db *DB) SetSyncMeta(key, value string) error {
	meta := models.SyncMeta{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}

// GetTagSetCursor returns a version's last-seen tag set update timestamp.
// Returns 0 (the earliest representable value) if the version has never
// synced.
func (db *DB) GetTagSetCursor(versionID string) (int64, error) {
	value, err := db.GetSyncMeta(models.TagSetCursorKey(versionID))
	if err != nil {
		return 0, fmt.Errorf("get cursor for %s: %w", versionID, err)
	}
	if value == "" {
		return 0, nil
	}
	cursor, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cursor for %s: %w", versionID, err)
	}
	return cursor, nil
}

// SetTagSetCursor advances a version's cursor. The cursor is monotonically
// non-decreasing: attempts to move it backwards are ignored.
func (db *DB) SetTagSetCursor(versionID string, cursor int64) error {
	current, err := db.GetTagSetCursor(versionID)
	if err != nil {
		return err
	}
	if cursor <= current {
		return nil
	}
	if err := db.SetSyncMeta(models.TagSetCursorKey(versionID), strconv.FormatInt(cursor, 10)); err != nil {
		return fmt.Errorf("set cursor for %s: %w", versionID, err)
	}
	return nil
}
