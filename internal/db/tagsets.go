package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/asteroid-belt/versetag/internal/models"
)

// untaggedStatuses are the statuses that do not satisfy "this verse has a
// human-created tag set". Everything else, known or not, counts as tagged.
var untaggedStatuses = []models.TagSetStatus{
	models.TagSetStatusNone,
	models.TagSetStatusAutomatch,
}

// CountTaggedInBook returns the number of tag sets for a (version, book)
// whose status counts as tagged.
func (db *DB) CountTaggedInBook(versionID string, bookID int) (int64, error) {
	var count int64
	err := db.Model(&models.TagSet{}).
		Where("version_id = ? AND loc LIKE ? AND status NOT IN ?",
			versionID, models.BookLocPrefix(bookID)+"%", untaggedStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count tagged for %s book %d: %w", versionID, bookID, err)
	}
	return count, nil
}

// TaggedLocsInBook returns the location keys of a (version, book) that
// already carry a qualifying tag set.
func (db *DB) TaggedLocsInBook(versionID string, bookID int) ([]string, error) {
	var locs []string
	err := db.Model(&models.TagSet{}).
		Where("version_id = ? AND loc LIKE ? AND status NOT IN ?",
			versionID, models.BookLocPrefix(bookID)+"%", untaggedStatuses).
		Pluck("loc", &locs).Error
	if err != nil {
		return nil, fmt.Errorf("tagged locs for %s book %d: %w", versionID, bookID, err)
	}
	return locs, nil
}

// GetTagSet retrieves a tag set by id. Returns nil if not found.
func (db *DB) GetTagSet(id string) (*models.TagSet, error) {
	var ts models.TagSet
	err := db.First(&ts, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag set %s: %w", id, err)
	}
	return &ts, nil
}

// MergeTagSets applies an authoritative sync response: every returned row
// is written last-writer-wins by SavedAt. Rows older than what is already
// stored are dropped; equal timestamps overwrite (re-applying an
// already-merged response is an overwrite with identical data).
func (db *DB) MergeTagSets(tagSets []models.TagSet) error {
	if len(tagSets) == 0 {
		return nil
	}
	return db.Transaction(func(tx *DB) error {
		for _, ts := range tagSets {
			if ts.ID == "" {
				return fmt.Errorf("merge tag set: missing id (loc %q, version %q)", ts.Loc, ts.VersionID)
			}
			existing, err := tx.GetTagSet(ts.ID)
			if err != nil {
				return err
			}
			if existing != nil && existing.SavedAt > ts.SavedAt {
				continue
			}
			if err := tx.Save(&ts).Error; err != nil {
				return fmt.Errorf("merge tag set %s: %w", ts.ID, err)
			}
		}
		return nil
	})
}
