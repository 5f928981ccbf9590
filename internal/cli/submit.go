package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/versetag/internal/models"
	"github.com/asteroid-belt/versetag/internal/wordhash"
)

var submitCmd = &cobra.Command{
	Use:   "submit <input.json>",
	Short: "Record and submit a tag set",
	Long: `Record a tag set submission in the local ledger and deliver it to the
tag authority.

The input file holds one tag set payload:

  {
    "loc": "01001001",
    "versionId": "esv",
    "tagSubmissions": [
      { "origWordNumbers": [1], "translationWordNumbers": [3] }
    ]
  }

The words hash and per-word hashes are computed from the locally imported
verse text; a stale or missing wordsHash in the file is overwritten. The
submission is durable before any network attempt: if the authority is
unreachable the command exits quietly and 'versetag replay' delivers the
queued work later.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var input models.TagSetInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	// Fingerprint against the verse text we actually have, so the
	// authority can tell whether the annotation matches its wording.
	version, err := database.GetVersion(input.VersionID)
	if err != nil {
		return err
	}
	if version == nil {
		return fmt.Errorf("version %s is not downloaded", input.VersionID)
	}

	var verse models.Verse
	if err := database.First(&verse, "version_id = ? AND loc = ?", input.VersionID, input.Loc).Error; err != nil {
		return fmt.Errorf("verse %s (%s) is not downloaded", input.Loc, input.VersionID)
	}

	rule := wordhash.DividerRule{Pattern: version.WordDivider}
	wordsHash, wordHashes, err := wordhash.HashVerse(verse.USFM, rule)
	if err != nil {
		return fmt.Errorf("hash verse %s: %w", input.Loc, err)
	}
	input.WordsHash = wordsHash
	input.WordHashes = wordHashes

	syncer := newSyncer(cfg, database)
	result, err := syncer.RecordAndSubmit(ctx, input)
	if err != nil {
		return err
	}

	switch {
	case result.Success:
		fmt.Printf("Tag set for %s (%s) submitted.\n", input.Loc, input.VersionID)
	case result.Message != "":
		fmt.Println(result.Message)
	default:
		// Offline: the input is safely queued, nothing is lost.
		fmt.Println("Queued for submission; will be delivered on next replay.")
	}
	return nil
}
