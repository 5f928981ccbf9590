package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetImportFlags restores the import command's flag state after a test.
func resetImportFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		importLanguage = ""
		importWordDivider = ""
		importOriginal = false
	})
}

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verses.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportCommand_RoundTrip(t *testing.T) {
	t.Setenv("VERSETAG_BASE_DIR", t.TempDir())
	resetImportFlags(t)

	dataPath := writeDataFile(t, `[
		{"loc":"01001001","usfm":"\\v 1 In the beginning"},
		{"loc":"01001002","usfm":"\\v 2 The earth was without form"}
	]`)

	importLanguage = "eng"
	require.NoError(t, runImport(importCmd, []string{"esv", dataPath}))

	_, database, err := openDatabase()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	version, err := database.GetVersion("esv")
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.Equal(t, "eng", version.LanguageID)
	assert.True(t, version.Annotatable())

	locs, err := database.LocsForBook("esv", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"01001001", "01001002"}, locs)
}

func TestImportCommand_MarksOriginalText(t *testing.T) {
	t.Setenv("VERSETAG_BASE_DIR", t.TempDir())
	resetImportFlags(t)

	dataPath := writeDataFile(t, `[{"loc":"01001001","usfm":"\\v 1 בראשית"}]`)
	require.NoError(t, runImport(importCmd, []string{"original", dataPath}))

	_, database, err := openDatabase()
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	version, err := database.GetVersion("original")
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.False(t, version.Annotatable())
}

func TestImportCommand_RejectsBadLoc(t *testing.T) {
	t.Setenv("VERSETAG_BASE_DIR", t.TempDir())
	resetImportFlags(t)

	dataPath := writeDataFile(t, `[{"loc":"bogus","usfm":"\\v 1 text"}]`)
	assert.Error(t, runImport(importCmd, []string{"esv", dataPath}))
}

func TestCheckAtLeast(t *testing.T) {
	// Test builds run as "dev", which satisfies every parseable minimum.
	assert.NoError(t, checkAtLeast("1.0.0"))
	assert.NoError(t, checkAtLeast("99.0.0"))
	assert.Error(t, checkAtLeast("not-a-version"))
}
