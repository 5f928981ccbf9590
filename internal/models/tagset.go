package models

import (
	"fmt"
	"strings"
)

// TagSetStatus is the remote authority's review state for a tag set.
//
// The vocabulary is owned server-side and treated as an open enumeration:
// statuses this client has never seen must not break exclusion logic, so
// unknown values are handled by CountsAsTagged rather than rejected.
type TagSetStatus string

const (
	// TagSetStatusNone means no usable tags exist for the verse.
	TagSetStatusNone TagSetStatus = "none"
	// TagSetStatusAutomatch means tags were produced by automated matching
	// and still need human review.
	TagSetStatusAutomatch TagSetStatus = "automatch"
	// TagSetStatusUnconfirmed means a human submitted tags awaiting
	// cross-checking against other submissions.
	TagSetStatusUnconfirmed TagSetStatus = "unconfirmed"
	// TagSetStatusConfirmed means enough submissions agree.
	TagSetStatusConfirmed TagSetStatus = "confirmed"
)

// IsKnown checks if the status is a value this client understands.
func (s TagSetStatus) IsKnown() bool {
	switch s {
	case TagSetStatusNone, TagSetStatusAutomatch,
		TagSetStatusUnconfirmed, TagSetStatusConfirmed:
		return true
	}
	return false
}

// CountsAsTagged reports whether the status satisfies "this verse has a
// human-created tag set" for work selection. "none" and "automatch" do not;
// every other status, including ones introduced server-side after this
// client shipped, does.
func (s TagSetStatus) CountsAsTagged() bool {
	return s != TagSetStatusNone && s != TagSetStatusAutomatch
}

// TagSet is the word-alignment mapping for one (verse, version) pair as
// known locally. Rows are replaced wholesale by sync responses; conflict
// resolution is last-writer-wins by SavedAt, decided server-side.
type TagSet struct {
	// ID is assigned by the remote authority as "<loc>-<versionId>-<wordsHash>".
	ID        string       `gorm:"primaryKey;size:64" json:"id"`
	VersionID string       `gorm:"size:9;index" json:"version_id"`
	Loc       string       `gorm:"size:8;index" json:"loc"`
	WordsHash string       `gorm:"size:16" json:"words_hash"`
	Status    TagSetStatus `gorm:"size:20;default:none" json:"status"`

	// Tags holds the serialized alignment pairs as returned by the server.
	Tags string `gorm:"type:text" json:"tags"`

	// SavedAt is the server-side update timestamp (ms since epoch); it
	// doubles as the incremental sync cursor value.
	SavedAt int64 `gorm:"index" json:"saved_at"`
}

// TableName specifies the table name for GORM.
func (TagSet) TableName() string {
	return "tag_sets"
}

// ParseTagSetID splits a remote tag set id into its components.
func ParseTagSetID(id string) (loc, versionID, wordsHash string, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed tag set id %q", id)
	}
	return parts[0], parts[1], parts[2], nil
}
