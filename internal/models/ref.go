// Package models defines the core data structures for versetag.
package models

import (
	"fmt"
	"strconv"
)

// Ref identifies a single verse by book, chapter, and verse number.
// Books are numbered 1-66 in protestant canon order.
type Ref struct {
	BookID  int `json:"bookId"`
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// LocLength is the fixed width of a location key: 2 book digits,
// 3 chapter digits, 3 verse digits.
const LocLength = 8

// Loc returns the fixed-width location key for the ref, e.g. "01001001"
// for Genesis 1:1. Location keys sort in canonical verse order.
func (r Ref) Loc() string {
	return fmt.Sprintf("%02d%03d%03d", r.BookID, r.Chapter, r.Verse)
}

// String returns a human-readable form like "1:1 (book 1)".
func (r Ref) String() string {
	return fmt.Sprintf("%d:%d (book %d)", r.Chapter, r.Verse, r.BookID)
}

// RefFromLoc parses a fixed-width location key back into a Ref.
func RefFromLoc(loc string) (Ref, error) {
	if len(loc) != LocLength {
		return Ref{}, fmt.Errorf("invalid loc %q: want %d digits", loc, LocLength)
	}
	bookID, err := strconv.Atoi(loc[0:2])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid loc %q: %w", loc, err)
	}
	chapter, err := strconv.Atoi(loc[2:5])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid loc %q: %w", loc, err)
	}
	verse, err := strconv.Atoi(loc[5:8])
	if err != nil {
		return Ref{}, fmt.Errorf("invalid loc %q: %w", loc, err)
	}
	if bookID < 1 || bookID > NumBooks {
		return Ref{}, fmt.Errorf("invalid loc %q: book %d out of range", loc, bookID)
	}
	return Ref{BookID: bookID, Chapter: chapter, Verse: verse}, nil
}

// BookLocPrefix returns the 2-digit loc prefix for a book, used to match
// all location keys belonging to that book.
func BookLocPrefix(bookID int) string {
	return fmt.Sprintf("%02d", bookID)
}

// NumBooks is the number of books in the corpus.
const NumBooks = 66

// Testament is one of the two fixed partitions of the 66-book corpus.
type Testament string

const (
	TestamentOld Testament = "ot" // books 1-39
	TestamentNew Testament = "nt" // books 40-66
)

// Testaments returns both partitions in canonical order.
func Testaments() []Testament {
	return []Testament{TestamentOld, TestamentNew}
}

// IsValid checks if the testament is a known value.
func (t Testament) IsValid() bool {
	return t == TestamentOld || t == TestamentNew
}

// StartBookID returns the first book of the testament.
func (t Testament) StartBookID() int {
	if t == TestamentNew {
		return 40
	}
	return 1
}

// EndBookID returns the last book of the testament.
func (t Testament) EndBookID() int {
	if t == TestamentOld {
		return 39
	}
	return NumBooks
}

// TestamentForBook returns the testament a book belongs to.
func TestamentForBook(bookID int) Testament {
	if bookID <= 39 {
		return TestamentOld
	}
	return TestamentNew
}
