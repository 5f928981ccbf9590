package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/versetag/internal/models"
)

// UpsertVersion creates or updates a version record.
func (db *DB) UpsertVersion(v *models.Version) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language_id", "word_divider", "is_original", "updated_at"}),
	}).Create(v).Error
}

// GetVersion retrieves a version by id. Returns nil if not found.
func (db *DB) GetVersion(id string) (*models.Version, error) {
	var v models.Version
	err := db.First(&v, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get version %s: %w", id, err)
	}
	return &v, nil
}

// ListVersions returns all downloaded versions in import order.
func (db *DB) ListVersions() ([]models.Version, error) {
	var versions []models.Version
	if err := db.Order("created_at, id").Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// DownloadedVersionIDs returns the ids of all downloaded versions in import
// order. The original-language text is included; callers that need only
// annotation targets skip it.
func (db *DB) DownloadedVersionIDs() ([]string, error) {
	versions, err := db.ListVersions()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(versions))
	for i, v := range versions {
		ids[i] = v.ID
	}
	return ids, nil
}
