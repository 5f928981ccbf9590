package db

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/versetag/internal/models"
)

// ImportVerses replaces the given verses for a version. Used when a
// version's data file is imported or re-downloaded.
func (db *DB) ImportVerses(verses []models.Verse) error {
	if len(verses) == 0 {
		return nil
	}
	return db.Transaction(func(tx *DB) error {
		// REPLACE semantics so re-downloads overwrite changed text
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "version_id"}, {Name: "loc"}},
			DoUpdates: clause.AssignmentColumns([]string{"usfm"}),
		}).CreateInBatches(verses, 500).Error
		if err != nil {
			return fmt.Errorf("import verses: %w", err)
		}
		return nil
	})
}

// VersesForBook returns all verse rows of a (version, book) in loc order.
func (db *DB) VersesForBook(versionID string, bookID int) ([]models.Verse, error) {
	var verses []models.Verse
	err := db.
		Where("version_id = ? AND loc LIKE ?", versionID, models.BookLocPrefix(bookID)+"%").
		Order("loc").
		Find(&verses).Error
	if err != nil {
		return nil, fmt.Errorf("verses for %s book %d: %w", versionID, bookID, err)
	}
	return verses, nil
}

// CountVersesInBook returns the number of verse rows of a (version, book).
func (db *DB) CountVersesInBook(versionID string, bookID int) (int64, error) {
	var count int64
	err := db.Model(&models.Verse{}).
		Where("version_id = ? AND loc LIKE ?", versionID, models.BookLocPrefix(bookID)+"%").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count verses for %s book %d: %w", versionID, bookID, err)
	}
	return count, nil
}

// LocsForBook returns the location keys of a (version, book) in loc order.
func (db *DB) LocsForBook(versionID string, bookID int) ([]string, error) {
	var locs []string
	err := db.Model(&models.Verse{}).
		Where("version_id = ? AND loc LIKE ?", versionID, models.BookLocPrefix(bookID)+"%").
		Order("loc").
		Pluck("loc", &locs).Error
	if err != nil {
		return nil, fmt.Errorf("locs for %s book %d: %w", versionID, bookID, err)
	}
	return locs, nil
}
