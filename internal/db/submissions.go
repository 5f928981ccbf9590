package db

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/versetag/internal/models"
)

// RecordSubmission durably records the intent to submit a tag set, before
// any network attempt is made. REPLACE semantics: re-recording the same
// (loc, versionId, wordsHash) collapses to one row with submitted reset to
// false. This is the engine's core durability guarantee — a crash after
// RecordSubmission but before delivery leaves the work recoverable.
func (db *DB) RecordSubmission(input models.TagSetInput) (*models.SubmissionRecord, error) {
	encoded, err := input.Encode()
	if err != nil {
		return nil, err
	}

	record := models.SubmissionRecord{
		ID:        input.SubmissionID(),
		Input:     encoded,
		Submitted: false,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"input", "submitted", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("record submission %s: %w", record.ID, err)
	}
	return &record, nil
}

// MarkSubmitted flips the submitted flag after the remote authority has
// acknowledged receipt. Idempotent.
func (db *DB) MarkSubmitted(id string) error {
	err := db.Model(&models.SubmissionRecord{}).
		Where("id = ?", id).
		Update("submitted", true).Error
	if err != nil {
		return fmt.Errorf("mark submitted %s: %w", id, err)
	}
	return nil
}

// ListUnsubmitted returns every submission record still awaiting remote
// acknowledgement, for replay at startup or reconnect. Ordering is not
// significant; all entries must eventually be retried.
func (db *DB) ListUnsubmitted() ([]models.SubmissionRecord, error) {
	var records []models.SubmissionRecord
	if err := db.Where("submitted = ?", false).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list unsubmitted: %w", err)
	}
	return records, nil
}

// SubmissionStats summarizes the ledger.
type SubmissionStats struct {
	Pending   int64
	Submitted int64
}

// GetSubmissionStats returns pending and submitted counts.
func (db *DB) GetSubmissionStats() (*SubmissionStats, error) {
	var stats SubmissionStats
	err := db.Model(&models.SubmissionRecord{}).
		Where("submitted = ?", false).
		Count(&stats.Pending).Error
	if err != nil {
		return nil, fmt.Errorf("count pending submissions: %w", err)
	}
	err = db.Model(&models.SubmissionRecord{}).
		Where("submitted = ?", true).
		Count(&stats.Submitted).Error
	if err != nil {
		return nil, fmt.Errorf("count submitted submissions: %w", err)
	}
	return &stats, nil
}
