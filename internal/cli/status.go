package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger and sync cursor state",
	Long: `Show the submission ledger (queued vs acknowledged submissions) and the
incremental sync cursor of every downloaded version.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	stats, err := database.GetSubmissionStats()
	if err != nil {
		return err
	}

	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	fmt.Println("SUBMISSION LEDGER")
	fmt.Println("──────────────────────────────────────────────────")
	fmt.Printf("  acknowledged: %s\n", okStyle.Render(fmt.Sprintf("%d", stats.Submitted)))
	if stats.Pending > 0 {
		fmt.Printf("  queued:       %s  (run 'versetag replay')\n",
			pendingStyle.Render(fmt.Sprintf("%d", stats.Pending)))
	} else {
		fmt.Printf("  queued:       %d\n", stats.Pending)
	}

	versions, err := database.ListVersions()
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return nil
	}

	fmt.Println("\nSYNC CURSORS")
	fmt.Println("──────────────────────────────────────────────────")
	for _, v := range versions {
		cursor, err := database.GetTagSetCursor(v.ID)
		if err != nil {
			return err
		}
		if cursor == 0 {
			fmt.Printf("  %-10s never synced\n", v.ID)
		} else {
			fmt.Printf("  %-10s %d\n", v.ID, cursor)
		}
	}
	return nil
}
