package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTagSetCursor_DefaultsToZero(t *testing.T) {
	db := testDB(t)

	cursor, err := db.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cursor)
}

func TestSetTagSetCursor_Monotonic(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SetTagSetCursor("esv", 100))

	cursor, err := db.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(100), cursor)

	// Moving backwards is ignored.
	require.NoError(t, db.SetTagSetCursor("esv", 50))
	cursor, err = db.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(100), cursor)

	require.NoError(t, db.SetTagSetCursor("esv", 250))
	cursor, err = db.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(250), cursor)
}

func TestTagSetCursor_PerVersion(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SetTagSetCursor("esv", 100))
	require.NoError(t, db.SetTagSetCursor("kjv", 7))

	esv, err := db.GetTagSetCursor("esv")
	require.NoError(t, err)
	kjv, err := db.GetTagSetCursor("kjv")
	require.NoError(t, err)
	assert.Equal(t, int64(100), esv)
	assert.Equal(t, int64(7), kjv)
}

func TestSyncMeta_SetAndGet(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SetSyncMeta("some-key", "some-value"))
	value, err := db.GetSyncMeta("some-key")
	require.NoError(t, err)
	assert.Equal(t, "some-value", value)

	require.NoError(t, db.SetSyncMeta("some-key", "updated"))
	value, err = db.GetSyncMeta("some-key")
	require.NoError(t, err)
	assert.Equal(t, "updated", value)

	missing, err := db.GetSyncMeta("absent")
	require.NoError(t, err)
	assert.Equal(t, "", missing)
}
