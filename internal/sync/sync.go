// Package sync pushes tag set submissions to the remote authority and
// merges back its authoritative incremental updates.
//
// Durability comes from the local submission ledger, not from the network:
// every submission is recorded before delivery is attempted, and records
// stay queued across any failure until the authority acknowledges them.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/asteroid-belt/versetag/internal/db"
	"github.com/asteroid-belt/versetag/internal/log"
	"github.com/asteroid-belt/versetag/internal/models"
	"github.com/asteroid-belt/versetag/internal/remote"
)

// rejectedMessage is shown to the user when the authority rejects a
// submission. Transport failures show nothing: the input is safely queued.
const rejectedMessage = "Unable to submit tag set. Contact us if this problem persists."

// TaggedObserver is notified as soon as a verse is tagged locally, before
// the remote round trip completes, so in-session work selection never
// offers the same verse twice.
type TaggedObserver interface {
	MarkTagged(versionID string, locs ...string)
}

// Result is the structured outcome of a single submission. Failures are
// reported here rather than as errors so callers can react without
// aborting their flow; the ledger record is the actual durability
// guarantee either way.
type Result struct {
	Success bool
	Message string // empty for transport failures, set for rejections
}

// Syncer owns submission delivery, ledger replay, and the bulk word hash
// bootstrap.
type Syncer struct {
	db             *db.DB
	remote         remote.Client
	embeddingAppID string
	observer       TaggedObserver

	// retryDelay is the pause before the bulk path's single retry.
	retryDelay time.Duration
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithObserver registers a tagged-verse observer.
func WithObserver(o TaggedObserver) Option {
	return func(s *Syncer) { s.observer = o }
}

// WithEmbeddingAppID sets the client installation id stamped on payloads.
func WithEmbeddingAppID(id string) Option {
	return func(s *Syncer) { s.embeddingAppID = id }
}

// New creates a Syncer.
func New(database *db.DB, client remote.Client, opts ...Option) *Syncer {
	s := &Syncer{
		db:         database,
		remote:     client,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordAndSubmit durably records a tag set submission, prunes the verse
// from in-session work selection, then attempts delivery. The record is
// written before any network activity: a crash after RecordAndSubmit
// returns (or at any later point) leaves the work recoverable by Replay.
func (s *Syncer) RecordAndSubmit(ctx context.Context, input models.TagSetInput) (Result, error) {
	if input.EmbeddingAppID == "" {
		input.EmbeddingAppID = s.embeddingAppID
	}

	if _, err := s.db.RecordSubmission(input); err != nil {
		return Result{}, fmt.Errorf("record submission: %w", err)
	}

	if s.observer != nil {
		s.observer.MarkTagged(input.VersionID, input.Loc)
	}

	return s.Submit(ctx, input), nil
}

// Submit attempts delivery of an already-recorded submission and merges
// the authority's response. On success the returned tag sets are applied
// and the cursor advanced before the ledger record is marked submitted —
// a crash between those steps loses nothing, since an unmarked record is
// replayed and re-merging is idempotent.
func (s *Syncer) Submit(ctx context.Context, input models.TagSetInput) Result {
	updatedFrom, err := s.db.GetTagSetCursor(input.VersionID)
	if err != nil {
		log.Errorf("read cursor for %s: %v", input.VersionID, err)
		return Result{Success: false, Message: rejectedMessage}
	}

	update, err := s.remote.SubmitTagSet(ctx, input, updatedFrom)
	if err != nil {
		if remote.IsTransport(err) {
			// Offline. The record stays queued; no user-facing error.
			return Result{Success: false}
		}
		log.Errorf("submit tag set %s: %v", input.SubmissionID(), err)
		return Result{Success: false, Message: rejectedMessage}
	}

	if err := s.applyUpdate(input.VersionID, update); err != nil {
		log.Errorf("apply update for %s: %v", input.VersionID, err)
		return Result{Success: false, Message: rejectedMessage}
	}

	if err := s.db.MarkSubmitted(input.SubmissionID()); err != nil {
		// The submission reached the authority; the unmarked record will
		// be retried by replay, which the server deduplicates by key.
		log.Errorf("mark submitted %s: %v", input.SubmissionID(), err)
	}

	return Result{Success: true}
}

// applyUpdate merges the returned rows and advances the cursor, in that
// order.
func (s *Syncer) applyUpdate(versionID string, update *remote.TagSetUpdate) error {
	if err := s.db.MergeTagSets(update.TagSets); err != nil {
		return err
	}
	if err := s.db.SetTagSetCursor(versionID, update.NewCursor); err != nil {
		return err
	}
	log.Printf("%d tag sets updated for %s.\n", len(update.TagSets), versionID)
	return nil
}

// Replay resubmits every unsubmitted ledger record. It is called at
// startup and on reconnect. A transport failure stops the pass quietly
// (still offline); a rejection is logged and the pass continues with the
// next record. Records are never deleted.
func (s *Syncer) Replay(ctx context.Context) error {
	records, err := s.db.ListUnsubmitted()
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, record := range records {
		input, err := record.DecodeInput()
		if err != nil {
			log.Errorf("replay: %v", err)
			continue
		}

		result := s.Submit(ctx, input)
		if !result.Success && result.Message == "" {
			// Still offline; later records would fail the same way.
			return nil
		}
		if !result.Success {
			log.Errorf("replay: submission %s rejected, left queued", record.ID)
		}
	}
	return nil
}
