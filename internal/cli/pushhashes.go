package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var pushHashesCmd = &cobra.Command{
	Use:   "pushhashes [version-id...]",
	Short: "Bulk-upload word hashes for downloaded versions",
	Long: `Seed or verify the tag authority's word hashes for entire downloaded
versions, book by book.

Without arguments every downloaded translation is processed. Each book's
verses are hashed locally and uploaded in batches of 100; a failing batch
is retried once, and a version whose batch fails twice is reported at the
end without blocking the remaining versions.

This is an operator-run bootstrap job; re-running it is safe.`,
	RunE: runPushHashes,
}

func runPushHashes(cmd *cobra.Command, args []string) error {
	cfg, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	versionIDs := args
	if len(versionIDs) == 0 {
		versionIDs, err = database.DownloadedVersionIDs()
		if err != nil {
			return err
		}
	}
	if len(versionIDs) == 0 {
		fmt.Println("No versions downloaded. Run 'versetag import' first.")
		return nil
	}

	syncer := newSyncer(cfg, database)
	report, err := syncer.SyncWordHashes(cmd.Context(), versionIDs...)
	if err != nil {
		return fmt.Errorf("push hashes: %w", err)
	}

	if report.OK() {
		fmt.Println("All word hash sets submitted.")
		return nil
	}

	failStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	fmt.Println(failStyle.Render("The following versions failed to submit word hash sets:"))
	for _, id := range report.FailedVersionIDs {
		fmt.Printf("  - %s\n", id)
	}
	fmt.Println("Investigate and re-run for the failed versions.")
	return nil
}
