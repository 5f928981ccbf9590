package models

import "time"

// OriginalVersionID identifies the original-language text. It is downloaded
// like any translation but is never offered as an annotation target.
const OriginalVersionID = "original"

// Version represents one downloaded Bible translation (or the
// original-language text). Versions are immutable once imported; a
// re-download replaces the verse rows and invalidates stored fingerprints.
type Version struct {
	ID         string `gorm:"primaryKey;size:9" json:"id"`
	LanguageID string `gorm:"size:20" json:"language_id"`

	// WordDivider is a regular expression matching the characters that
	// separate words in this version's language. Empty means whitespace.
	WordDivider string `gorm:"size:255" json:"word_divider"`

	// IsOriginal marks the original-language (non-translation) text.
	IsOriginal bool `gorm:"default:false" json:"is_original"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Version) TableName() string {
	return "versions"
}

// Annotatable returns true if the version can be offered as a tagging
// target. The original-language text is the thing being aligned against,
// not a translation to align.
func (v *Version) Annotatable() bool {
	return !v.IsOriginal && v.ID != OriginalVersionID
}

// Verse is one verse row of a version's imported data file: the location
// key plus the raw USFM markup. Read-only after import.
type Verse struct {
	VersionID string `gorm:"primaryKey;size:9" json:"version_id"`
	Loc       string `gorm:"primaryKey;size:8" json:"loc"`
	USFM      string `gorm:"type:text" json:"usfm"`
}

// TableName specifies the table name for GORM.
func (Verse) TableName() string {
	return "verses"
}

// Ref returns the parsed location of the verse.
func (v *Verse) Ref() (Ref, error) {
	return RefFromLoc(v.Loc)
}
