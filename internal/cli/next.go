package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/versetag/internal/models"
	"github.com/asteroid-belt/versetag/internal/selector"
)

var nextTestament string
var nextCount int

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next verses needing tags",
	Long: `Scan the downloaded corpus for the next verses lacking a human-created
tag set.

Verses whose tag sets have status "none" or "automatch" count as untagged.
The original-language text is never offered as a tagging target.

Examples:
  versetag next
  versetag next --testament nt
  versetag next --count 10`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	nextCmd.Flags().StringVar(&nextTestament, "testament", "ot", `Testament to scan: "ot" or "nt"`)
	nextCmd.Flags().IntVar(&nextCount, "count", 1, "Number of verses to list")
}

func runNext(cmd *cobra.Command, args []string) error {
	testament := models.Testament(nextTestament)
	if !testament.IsValid() {
		return fmt.Errorf("unknown testament %q (want \"ot\" or \"nt\")", nextTestament)
	}

	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	sel := selector.New(database)
	progress := selector.NewProgress()

	passageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	found := 0
	for found < nextCount {
		passage, err := sel.Next(progress, testament)
		if err != nil {
			return err
		}
		if passage == nil {
			break
		}
		fmt.Printf("%s  %s\n", passageStyle.Render(passage.Ref.Loc()), passage.VersionID)
		found++
	}

	if found == 0 {
		fmt.Println("Nothing left to tag in this testament with current downloads.")
	}
	return nil
}
