package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/asteroid-belt/versetag/internal/log"
	"github.com/asteroid-belt/versetag/internal/models"
	"github.com/asteroid-belt/versetag/internal/wordhash"
)

// wordHashBatchSize bounds the payload of one bulk-hash request.
const wordHashBatchSize = 100

// BulkReport is the outcome of a bulk word hash upload run. A version
// appears in FailedVersionIDs at most once, however many of its batches
// failed.
type BulkReport struct {
	FailedVersionIDs []string
}

// OK reports whether every version uploaded cleanly.
func (r *BulkReport) OK() bool {
	return len(r.FailedVersionIDs) == 0
}

// SyncWordHashes seeds or verifies the authority's word hashes for entire
// downloaded versions, one book at a time. Within a (version, book) the
// batches are dispatched concurrently; each batch is retried exactly once
// after a fixed delay. A version whose batch fails twice is marked failed
// and the run continues with the remaining versions — one version's
// failure never blocks progress on the others.
func (s *Syncer) SyncWordHashes(ctx context.Context, versionIDs ...string) (*BulkReport, error) {
	report := &BulkReport{}
	failed := make(map[string]bool)

	for _, versionID := range versionIDs {
		version, err := s.db.GetVersion(versionID)
		if err != nil {
			return nil, fmt.Errorf("bulk upload: %w", err)
		}
		if version == nil {
			return nil, fmt.Errorf("bulk upload: version %s not downloaded", versionID)
		}
		if !version.Annotatable() {
			continue
		}

		rule := wordhash.DividerRule{Pattern: version.WordDivider}

		for bookID := 1; bookID <= models.NumBooks && !failed[versionID]; bookID++ {
			inputs, err := s.bookHashInputs(version, rule, bookID)
			if err != nil {
				return nil, err
			}
			if len(inputs) == 0 {
				continue
			}

			log.Printf("  - submit word hash sets for book %d (%s)\n", bookID, versionID)

			if err := s.uploadBatches(ctx, inputs); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Errorf("word hash upload failed for %s book %d: %v", versionID, bookID, err)
				failed[versionID] = true
				report.FailedVersionIDs = append(report.FailedVersionIDs, versionID)
			}
		}
	}

	return report, nil
}

// bookHashInputs computes the per-verse upload payloads for one book.
// Unhashable verses are logged and skipped; they cannot be tagged anyway.
func (s *Syncer) bookHashInputs(version *models.Version, rule wordhash.DividerRule, bookID int) ([]models.WordHashesSetInput, error) {
	verses, err := s.db.VersesForBook(version.ID, bookID)
	if err != nil {
		return nil, fmt.Errorf("bulk upload: %w", err)
	}

	inputs := make([]models.WordHashesSetInput, 0, len(verses))
	for _, verse := range verses {
		wordsHash, wordHashes, err := wordhash.HashVerse(verse.USFM, rule)
		if err != nil {
			log.Errorf("skip unhashable verse %s (%s): %v", verse.Loc, version.ID, err)
			continue
		}
		inputs = append(inputs, models.WordHashesSetInput{
			Loc:            verse.Loc,
			VersionID:      version.ID,
			WordsHash:      wordsHash,
			EmbeddingAppID: s.embeddingAppID,
			WordHashes:     wordHashes,
		})
	}
	return inputs, nil
}

// uploadBatches partitions the inputs into fixed-size batches and submits
// them concurrently, awaiting all. Each batch owns disjoint verses, so no
// state is shared between them. A plain errgroup (no shared cancellation)
// keeps one batch's failure from aborting its siblings' attempts.
func (s *Syncer) uploadBatches(ctx context.Context, inputs []models.WordHashesSetInput) error {
	var g errgroup.Group

	for start := 0; start < len(inputs); start += wordHashBatchSize {
		end := min(start+wordHashBatchSize, len(inputs))
		batch := inputs[start:end]

		g.Go(func() error {
			return s.submitBatchWithRetry(ctx, batch)
		})
	}

	return g.Wait()
}

// submitBatchWithRetry attempts one batch, retrying exactly once after a
// fixed delay.
func (s *Syncer) submitBatchWithRetry(ctx context.Context, batch []models.WordHashesSetInput) error {
	if err := s.remote.SubmitWordHashesSets(ctx, batch); err == nil {
		return nil
	}

	// Give the authority a moment, then try again.
	select {
	case <-time.After(s.retryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.remote.SubmitWordHashesSets(ctx, batch)
}
