package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/asteroid-belt/versetag/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(Config{
		Path:        dbPath,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

// seedVersion inserts a version for tests.
func seedVersion(t *testing.T, db *DB, id string, original bool) {
	t.Helper()
	require.NoError(t, db.UpsertVersion(&models.Version{
		ID:         id,
		LanguageID: "eng",
		IsOriginal: original,
	}))
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "versetag.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	}()

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	if db.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dirs", "versetag.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("nested directories were not created")
	}
}

func TestVersions(t *testing.T) {
	db := testDB(t)

	seedVersion(t, db, "esv", false)
	seedVersion(t, db, "original", true)

	v, err := db.GetVersion("esv")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.Annotatable())

	missing, err := db.GetVersion("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ids, err := db.DownloadedVersionIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"esv", "original"}, ids)
}

func TestImportVerses_ReplacesOnReimport(t *testing.T) {
	db := testDB(t)
	seedVersion(t, db, "esv", false)

	require.NoError(t, db.ImportVerses([]models.Verse{
		{VersionID: "esv", Loc: "01001001", USFM: `\v 1 first wording`},
	}))
	require.NoError(t, db.ImportVerses([]models.Verse{
		{VersionID: "esv", Loc: "01001001", USFM: `\v 1 revised wording`},
	}))

	verses, err := db.VersesForBook("esv", 1)
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, `\v 1 revised wording`, verses[0].USFM)
}

func TestLocsForBook_OrderedAndScoped(t *testing.T) {
	db := testDB(t)
	seedVersion(t, db, "esv", false)

	require.NoError(t, db.ImportVerses([]models.Verse{
		{VersionID: "esv", Loc: "01001002", USFM: `\v 2 b`},
		{VersionID: "esv", Loc: "01001001", USFM: `\v 1 a`},
		{VersionID: "esv", Loc: "02001001", USFM: `\v 1 other book`},
	}))

	locs, err := db.LocsForBook("esv", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"01001001", "01001002"}, locs)

	count, err := db.CountVersesInBook("esv", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
