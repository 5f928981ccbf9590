package sync

import (
	"context"
	"errors"
	"path/filepath"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/versetag/internal/db"
	"github.com/asteroid-belt/versetag/internal/models"
	"github.com/asteroid-belt/versetag/internal/remote"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(db.DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return database
}

// fakeRemote is a scripted remote.Client.
type fakeRemote struct {
	mu stdsync.Mutex

	submitErr    error
	update       *remote.TagSetUpdate
	submitCalls  []models.TagSetInput
	updatedFroms []int64

	batchCalls [][]models.WordHashesSetInput
	batchErr   func(batch []models.WordHashesSetInput, attempt int) error
	attempts   map[string]int
}

var _ remote.Client = (*fakeRemote)(nil)

func (f *fakeRemote) SubmitTagSet(ctx context.Context, input models.TagSetInput, updatedFrom int64) (*remote.TagSetUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls = append(f.submitCalls, input)
	f.updatedFroms = append(f.updatedFroms, updatedFrom)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.update != nil {
		return f.update, nil
	}
	return &remote.TagSetUpdate{NewCursor: updatedFrom}, nil
}

func (f *fakeRemote) SubmitWordHashesSets(ctx context.Context, inputs []models.WordHashesSetInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls = append(f.batchCalls, inputs)
	if f.batchErr == nil {
		return nil
	}
	if f.attempts == nil {
		f.attempts = make(map[string]int)
	}
	key := inputs[0].Loc
	f.attempts[key]++
	return f.batchErr(inputs, f.attempts[key])
}

// taggedRecorder captures MarkTagged notifications.
type taggedRecorder struct {
	versionID string
	locs      []string
}

func (r *taggedRecorder) MarkTagged(versionID string, locs ...string) {
	r.versionID = versionID
	r.locs = append(r.locs, locs...)
}

func submissionInput() models.TagSetInput {
	return models.TagSetInput{
		Loc:       "01001001",
		VersionID: "esv",
		WordsHash: "aaaa1111bbbb2222",
		Tags: []models.Tag{
			{OrigWordNumbers: []int{1}, TranslationWordNumbers: []int{2}},
		},
	}
}

func TestRecordAndSubmit_Success(t *testing.T) {
	database := testDB(t)
	input := submissionInput()

	returned := models.TagSet{
		ID:        "01001001-esv-aaaa1111bbbb2222",
		VersionID: "esv",
		Loc:       "01001001",
		WordsHash: "aaaa1111bbbb2222",
		Status:    models.TagSetStatusUnconfirmed,
		SavedAt:   500,
	}
	client := &fakeRemote{
		update: &remote.TagSetUpdate{TagSets: []models.TagSet{returned}, NewCursor: 500},
	}

	syncer := New(database, client, WithEmbeddingAppID("versetag"))
	result, err := syncer.RecordAndSubmit(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Message)

	// The authoritative rows are merged and the cursor advanced.
	merged, err := database.GetTagSet(returned.ID)
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.Equal(t, models.TagSetStatusUnconfirmed, merged.Status)

	cursor, err := database.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(500), cursor)

	// The ledger record is acknowledged.
	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The payload was stamped with the installation id.
	require.Len(t, client.submitCalls, 1)
	assert.Equal(t, "versetag", client.submitCalls[0].EmbeddingAppID)
}

func TestRecordAndSubmit_SendsPersistedCursor(t *testing.T) {
	database := testDB(t)
	require.NoError(t, database.SetTagSetCursor("esv", 123))

	client := &fakeRemote{}
	syncer := New(database, client)
	_, err := syncer.RecordAndSubmit(context.Background(), submissionInput())
	require.NoError(t, err)

	require.Len(t, client.updatedFroms, 1)
	assert.Equal(t, int64(123), client.updatedFroms[0])
}

func TestRecordAndSubmit_TransportFailure(t *testing.T) {
	database := testDB(t)
	client := &fakeRemote{
		submitErr: &remote.TransportError{Op: "submitTagSet", Err: errors.New("no route to host")},
	}

	syncer := New(database, client)
	result, err := syncer.RecordAndSubmit(context.Background(), submissionInput())
	require.NoError(t, err)

	// Offline submissions fail silently: no message, nothing lost.
	assert.False(t, result.Success)
	assert.Empty(t, result.Message)

	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.False(t, pending[0].Submitted)

	cursor, err := database.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cursor)
}

func TestRecordAndSubmit_Rejection(t *testing.T) {
	database := testDB(t)
	client := &fakeRemote{
		submitErr: &remote.RequestError{Op: "submitTagSet", Message: "stale words hash"},
	}

	syncer := New(database, client)
	result, err := syncer.RecordAndSubmit(context.Background(), submissionInput())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	// The record stays queued for manual retry.
	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRecordAndSubmit_FailedMergeLeavesRecordQueued(t *testing.T) {
	database := testDB(t)

	// The remote call succeeds but applying its rows fails, so the record
	// must not be acknowledged and the cursor must not advance.
	client := &fakeRemote{
		update: &remote.TagSetUpdate{
			TagSets:   []models.TagSet{{VersionID: "esv", Loc: "01001001", SavedAt: 500}},
			NewCursor: 500,
		},
	}

	syncer := New(database, client)
	result, err := syncer.RecordAndSubmit(context.Background(), submissionInput())
	require.NoError(t, err)
	require.Len(t, client.submitCalls, 1)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)

	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.False(t, pending[0].Submitted)

	cursor, err := database.GetTagSetCursor("esv")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cursor)
}

func TestRecordAndSubmit_NotifiesObserverBeforeDelivery(t *testing.T) {
	database := testDB(t)
	recorder := &taggedRecorder{}
	client := &fakeRemote{
		submitErr: &remote.TransportError{Op: "submitTagSet", Err: errors.New("offline")},
	}

	syncer := New(database, client, WithObserver(recorder))
	_, err := syncer.RecordAndSubmit(context.Background(), submissionInput())
	require.NoError(t, err)

	// Pruned even though delivery failed: the verse is tagged locally.
	assert.Equal(t, "esv", recorder.versionID)
	assert.Equal(t, []string{"01001001"}, recorder.locs)
}

func TestReplay_DeliversQueued(t *testing.T) {
	database := testDB(t)

	first := submissionInput()
	second := submissionInput()
	second.Loc = "01001002"
	_, err := database.RecordSubmission(first)
	require.NoError(t, err)
	_, err = database.RecordSubmission(second)
	require.NoError(t, err)

	client := &fakeRemote{}
	syncer := New(database, client)
	require.NoError(t, syncer.Replay(context.Background()))

	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Len(t, client.submitCalls, 2)
}

func TestReplay_StopsQuietlyWhileOffline(t *testing.T) {
	database := testDB(t)

	_, err := database.RecordSubmission(submissionInput())
	require.NoError(t, err)

	client := &fakeRemote{
		submitErr: &remote.TransportError{Op: "submitTagSet", Err: errors.New("offline")},
	}
	syncer := New(database, client)
	require.NoError(t, syncer.Replay(context.Background()))

	// Still queued for the next replay; only one attempt was made.
	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Len(t, client.submitCalls, 1)
}

func TestReplay_ContinuesPastRejections(t *testing.T) {
	database := testDB(t)

	first := submissionInput()
	second := submissionInput()
	second.Loc = "01001002"
	second.WordsHash = "cccc3333dddd4444"
	_, err := database.RecordSubmission(first)
	require.NoError(t, err)
	_, err = database.RecordSubmission(second)
	require.NoError(t, err)

	client := &fakeRemote{
		submitErr: &remote.RequestError{Op: "submitTagSet", Message: "rejected"},
	}
	syncer := New(database, client)
	require.NoError(t, syncer.Replay(context.Background()))

	// Both were attempted; both remain queued.
	assert.Len(t, client.submitCalls, 2)
	pending, err := database.ListUnsubmitted()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
