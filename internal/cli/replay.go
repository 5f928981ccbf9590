package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Resubmit queued tag set submissions",
	Long: `Deliver every tag set submission still awaiting acknowledgement from the
tag authority.

Run at startup or after regaining connectivity. Submissions are keyed by
(loc, versionId, wordsHash), so redelivering an already-applied submission
is a no-op server-side.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	before, err := database.GetSubmissionStats()
	if err != nil {
		return err
	}
	if before.Pending == 0 {
		fmt.Println("Nothing queued.")
		return nil
	}

	syncer := newSyncer(cfg, database)
	if err := syncer.Replay(cmd.Context()); err != nil {
		return err
	}

	after, err := database.GetSubmissionStats()
	if err != nil {
		return err
	}
	delivered := before.Pending - after.Pending
	fmt.Printf("Delivered %d of %d queued submissions.\n", delivered, before.Pending)
	if after.Pending > 0 {
		fmt.Printf("%d remain queued; run 'versetag replay' again once online.\n", after.Pending)
	}
	return nil
}
