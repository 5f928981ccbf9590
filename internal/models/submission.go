package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SubmissionID computes the composite local ledger key. Re-submitting
// identical content for the same verse revision collapses to one record.
func SubmissionID(loc, versionID, wordsHash string) string {
	return fmt.Sprintf("%s-%s-%s", loc, versionID, wordsHash)
}

// SubmissionRecord is the durable write-ahead record of one tag set
// submission. It is written before any network attempt and only ever
// mutated to flip Submitted after the remote authority acknowledges.
// Records are never deleted by the engine.
type SubmissionRecord struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Input     string `gorm:"type:text" json:"input"` // serialized TagSetInput
	Submitted bool   `gorm:"default:false;index" json:"submitted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SubmissionRecord) TableName() string {
	return "submitted_tag_sets"
}

// DecodeInput deserializes the stored submission payload.
func (r *SubmissionRecord) DecodeInput() (TagSetInput, error) {
	var input TagSetInput
	if err := json.Unmarshal([]byte(r.Input), &input); err != nil {
		return TagSetInput{}, fmt.Errorf("decode submission %s: %w", r.ID, err)
	}
	return input, nil
}

// TagSetInput is the payload of one tag set submission to the remote
// authority.
type TagSetInput struct {
	Loc            string     `json:"loc"`
	VersionID      string     `json:"versionId"`
	WordsHash      string     `json:"wordsHash"`
	EmbeddingAppID string     `json:"embeddingAppId"`
	WordHashes     []WordHash `json:"wordHashes"`
	Tags           []Tag      `json:"tagSubmissions"`
}

// SubmissionID returns the ledger key for this input.
func (in TagSetInput) SubmissionID() string {
	return SubmissionID(in.Loc, in.VersionID, in.WordsHash)
}

// Encode serializes the input for durable storage.
func (in TagSetInput) Encode() (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode submission %s: %w", in.SubmissionID(), err)
	}
	return string(b), nil
}

// Tag is one alignment pair: original-language word positions mapped to
// translation word positions.
type Tag struct {
	OrigWordNumbers        []int `json:"origWordNumbers"`
	TranslationWordNumbers []int `json:"translationWordNumbers"`
}

// WordHash carries the per-word fingerprints for one word position.
// Context hashes let the server locate a word even when identical words
// appear at several positions in the verse.
type WordHash struct {
	WordNumberInVerse      int    `json:"wordNumberInVerse"`
	Hash                   string `json:"hash"`
	WithBeforeHash         string `json:"withBeforeHash"`
	WithAfterHash          string `json:"withAfterHash"`
	WithBeforeAndAfterHash string `json:"withBeforeAndAfterHash"`
}

// WordHashesSetInput is one verse's entry in a bulk bootstrap upload.
type WordHashesSetInput struct {
	Loc            string     `json:"loc"`
	VersionID      string     `json:"versionId"`
	WordsHash      string     `json:"wordsHash"`
	EmbeddingAppID string     `json:"embeddingAppId"`
	WordHashes     []WordHash `json:"wordHashes"`
}
