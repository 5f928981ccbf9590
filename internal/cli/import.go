package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/versetag/internal/models"
)

var (
	importLanguage    string
	importWordDivider string
	importOriginal    bool
)

var importCmd = &cobra.Command{
	Use:   "import <version-id> <verses.json>",
	Short: "Import a version's verse data",
	Long: `Import a version's verse rows into the local store.

The data file is a JSON array of {loc, usfm} objects covering any subset
of books. Re-importing replaces existing rows, which is how a re-download
with changed text invalidates previously computed fingerprints.

Examples:
  versetag import esv esv-verses.json --language eng
  versetag import original uhb-verses.json --original`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importLanguage, "language", "", "Language identifier (e.g. eng)")
	importCmd.Flags().StringVar(&importWordDivider, "word-divider", "", "Regex matching word-separating characters (default: whitespace)")
	importCmd.Flags().BoolVar(&importOriginal, "original", false, "Mark as the original-language text")
}

func runImport(cmd *cobra.Command, args []string) error {
	versionID, path := args[0], args[1]

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}

	var rows []struct {
		Loc  string `json:"loc"`
		USFM string `json:"usfm"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("parse data file: %w", err)
	}

	verses := make([]models.Verse, 0, len(rows))
	for _, row := range rows {
		if _, err := models.RefFromLoc(row.Loc); err != nil {
			return fmt.Errorf("data file: %w", err)
		}
		verses = append(verses, models.Verse{
			VersionID: versionID,
			Loc:       row.Loc,
			USFM:      row.USFM,
		})
	}

	_, database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	version := &models.Version{
		ID:          versionID,
		LanguageID:  importLanguage,
		WordDivider: importWordDivider,
		IsOriginal:  importOriginal || versionID == models.OriginalVersionID,
	}
	if err := database.UpsertVersion(version); err != nil {
		return fmt.Errorf("upsert version: %w", err)
	}
	if err := database.ImportVerses(verses); err != nil {
		return err
	}

	fmt.Printf("Imported %d verses for %s.\n", len(verses), versionID)
	return nil
}
