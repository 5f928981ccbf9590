package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List downloaded versions",
	Long: `List all locally downloaded versions.

Shows language, word-divider rule, and whether the version is the
original-language text (which is never offered as a tagging target).`,
	Args: cobra.NoArgs,
	RunE: runVersions,
}

func runVersions(cmd *cobra.Command, args []string) error {
	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	versions, err := database.ListVersions()
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("No versions downloaded.")
		fmt.Println("\nUse 'versetag import <version-id> <verses.json>' to import one.")
		return nil
	}

	fmt.Printf("VERSIONS (%d downloaded)\n", len(versions))
	fmt.Println("──────────────────────────────────────────────────")
	for _, v := range versions {
		kind := "translation"
		if !v.Annotatable() {
			kind = "original text"
		}
		divider := v.WordDivider
		if divider == "" {
			divider = "whitespace"
		}
		fmt.Printf("%-10s %-12s lang=%-8s divider=%s\n", v.ID, kind, v.LanguageID, divider)
	}
	return nil
}
