// Package selector finds the next verse that still needs a human-created
// tag set, scanning across downloaded versions and books per testament.
//
// Scan state lives in an explicit Progress object owned by the session
// driving the tagging flow, not in package-level variables, so independent
// sessions never interfere.
package selector

import (
	"fmt"
	"slices"
	"sync"

	"github.com/asteroid-belt/versetag/internal/db"
	"github.com/asteroid-belt/versetag/internal/models"
)

// Passage is one unit of tagging work: a verse of a specific version.
type Passage struct {
	VersionID string
	Ref       models.Ref
}

// testamentProgress is the resumable scan position for one testament.
type testamentProgress struct {
	versionID string   // currently scanned version, "" before first scan
	bookID    int      // next book to scan within the testament's range
	pending   []string // locs of the current (version, book) still untagged
}

// Progress holds per-testament scan state for one tagging session.
// Safe for concurrent use.
type Progress struct {
	mu          sync.Mutex
	byTestament map[models.Testament]*testamentProgress
}

// NewProgress creates empty scan state.
func NewProgress() *Progress {
	byTestament := make(map[models.Testament]*testamentProgress)
	for _, t := range models.Testaments() {
		byTestament[t] = &testamentProgress{bookID: t.StartBookID()}
	}
	return &Progress{byTestament: byTestament}
}

// MarkTagged eagerly removes locations from the pending queues once they
// have been tagged locally, even before the remote sync completes, so the
// same verse is never offered twice in a session. Implements
// sync.TaggedObserver.
func (p *Progress) MarkTagged(versionID string, locs ...string) {
	if len(locs) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current := false
	for _, tp := range p.byTestament {
		if tp.versionID == versionID {
			current = true
		}
	}
	if !current {
		return
	}

	for _, tp := range p.byTestament {
		tp.pending = slices.DeleteFunc(tp.pending, func(loc string) bool {
			return slices.Contains(locs, loc)
		})
	}
}

// Selector scans the downloaded corpus for untagged verses.
type Selector struct {
	db *db.DB
}

// New creates a Selector backed by the local store.
func New(database *db.DB) *Selector {
	return &Selector{db: database}
}

// Next returns the next verse lacking a qualifying tag set for the
// testament, or nil when nothing is left to tag given current downloads
// (the caller may retry later as new content arrives).
func (s *Selector) Next(progress *Progress, testament models.Testament) (*Passage, error) {
	if !testament.IsValid() {
		return nil, fmt.Errorf("unknown testament %q", testament)
	}

	progress.mu.Lock()
	defer progress.mu.Unlock()
	tp := progress.byTestament[testament]

	if len(tp.pending) > 0 {
		return popPassage(tp)
	}

	versionIDs, err := s.db.DownloadedVersionIDs()
	if err != nil {
		return nil, fmt.Errorf("next verse to tag: %w", err)
	}
	if len(versionIDs) == 0 {
		return nil, nil
	}

	startIdx := max(slices.Index(versionIDs, tp.versionID), 0)
	for idx := startIdx; idx < len(versionIDs); idx++ {
		tp.versionID = versionIDs[idx]
		if tp.versionID == models.OriginalVersionID {
			continue
		}
		version, err := s.db.GetVersion(tp.versionID)
		if err != nil {
			return nil, fmt.Errorf("next verse to tag: %w", err)
		}
		if version != nil && !version.Annotatable() {
			continue
		}

		for tp.bookID <= testament.EndBookID() {
			pending, err := s.untaggedLocs(tp.versionID, tp.bookID)
			if err != nil {
				return nil, err
			}
			tp.pending = pending
			tp.bookID++
			if len(tp.pending) > 0 {
				return popPassage(tp)
			}
		}
		tp.bookID = testament.StartBookID()
	}

	// Everything scanned; wrap so future calls rescan from the start.
	tp.versionID = versionIDs[0]
	return nil, nil
}

// popPassage pops the head of the pending queue and pairs it with the
// current version.
func popPassage(tp *testamentProgress) (*Passage, error) {
	loc := tp.pending[0]
	tp.pending = tp.pending[1:]
	ref, err := models.RefFromLoc(loc)
	if err != nil {
		return nil, fmt.Errorf("pending queue: %w", err)
	}
	return &Passage{VersionID: tp.versionID, Ref: ref}, nil
}

// untaggedLocs returns the location keys of a (version, book) lacking a
// qualifying tag set. A cheap count comparison short-circuits the full key
// fetch for fully tagged books.
func (s *Selector) untaggedLocs(versionID string, bookID int) ([]string, error) {
	taggedCount, err := s.db.CountTaggedInBook(versionID, bookID)
	if err != nil {
		return nil, fmt.Errorf("scan %s book %d: %w", versionID, bookID, err)
	}
	verseCount, err := s.db.CountVersesInBook(versionID, bookID)
	if err != nil {
		return nil, fmt.Errorf("scan %s book %d: %w", versionID, bookID, err)
	}
	if taggedCount >= verseCount {
		return nil, nil
	}

	taggedLocs, err := s.db.TaggedLocsInBook(versionID, bookID)
	if err != nil {
		return nil, fmt.Errorf("scan %s book %d: %w", versionID, bookID, err)
	}
	locs, err := s.db.LocsForBook(versionID, bookID)
	if err != nil {
		return nil, fmt.Errorf("scan %s book %d: %w", versionID, bookID, err)
	}

	tagged := make(map[string]bool, len(taggedLocs))
	for _, loc := range taggedLocs {
		tagged[loc] = true
	}

	untagged := make([]string, 0, max(len(locs)-len(taggedLocs), 0))
	for _, loc := range locs {
		if !tagged[loc] {
			untagged = append(untagged, loc)
		}
	}
	return untagged, nil
}
