package datastore

import (
	"testing"
	"time"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *EditHistoryStore {
	t.Helper()

	cfg := config.NewDefaultStorageConfig()
	cfg.ParquetBasePath = t.TempDir()

	store, err := NewEditHistoryStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func testRecord(filePath, sessionID string, timestamp int64) models.EditRecord {
	return models.EditRecord{
		SessionID:     sessionID,
		FilePath:      filePath,
		Timestamp:     timestamp,
		Outcome:       models.EditOutcomeApplied,
		MatchLocation: 23,
		MatchScore:    1.0,
		MatchStrategy: string(models.StrategyExact),
		OriginalHash:  "aaaa",
		PatchedHash:   "bbbb",
		OriginalBytes: 13,
		PatchedBytes:  13,
	}
}

func TestEditHistoryStore_RecordAndList(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordEdit(testRecord("/src/add.js", "s1", 100)))
	require.NoError(t, store.RecordEdit(testRecord("/src/add.js", "s2", 200)))
	require.NoError(t, store.RecordEdit(testRecord("/src/add.js", "s3", 300)))

	records, err := store.ListRecords("/src/add.js", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, "s3", records[0].SessionID)
	assert.Equal(t, "s2", records[1].SessionID)
	assert.Equal(t, "s1", records[2].SessionID)
	assert.Equal(t, int64(23), records[0].MatchLocation)
}

func TestEditHistoryStore_ListRespectsLimit(t *testing.T) {
	store := newTestStore(t)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, store.RecordEdit(testRecord("/src/add.js", "s", i)))
	}

	records, err := store.ListRecords("/src/add.js", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int64(5), records[0].Timestamp)
}

func TestEditHistoryStore_HistoriesAreSeparatedByFile(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordEdit(testRecord("/src/a.js", "sa", 100)))
	require.NoError(t, store.RecordEdit(testRecord("/src/b.js", "sb", 200)))

	recordsA, err := store.ListRecords("/src/a.js", 0)
	require.NoError(t, err)
	require.Len(t, recordsA, 1)
	assert.Equal(t, "sa", recordsA[0].SessionID)

	recordsB, err := store.ListRecords("/src/b.js", 0)
	require.NoError(t, err)
	require.Len(t, recordsB, 1)
	assert.Equal(t, "sb", recordsB[0].SessionID)
}

func TestEditHistoryStore_EmptyHistory(t *testing.T) {
	store := newTestStore(t)

	records, err := store.ListRecords("/never/edited.js", 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	last, err := store.LastRecord("/never/edited.js")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestEditHistoryStore_LastRecord(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.RecordEdit(testRecord("/src/add.js", "old", 100)))

	failed := testRecord("/src/add.js", "new", 200)
	failed.Outcome = models.EditOutcomeFailed
	failed.ErrorMessage = "the code may have changed too much"
	require.NoError(t, store.RecordEdit(failed))

	last, err := store.LastRecord("/src/add.js")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "new", last.SessionID)
	assert.Equal(t, models.EditOutcomeFailed, last.Outcome)
	assert.Equal(t, "the code may have changed too much", last.ErrorMessage)
}

func TestPathHashGenerator_StableAndBounded(t *testing.T) {
	gen := NewPathHashGenerator(16)

	first := gen.GenerateHash("/src/add.js")
	second := gen.GenerateHash("/src/add.js")
	other := gen.GenerateHash("/src/sub.js")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 16)
}

func TestEditHistoryStore_ConcurrentRecordsSameFile(t *testing.T) {
	store := newTestStore(t)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			done <- store.RecordEdit(testRecord("/src/add.js", "s", time.Now().UnixMilli()+int64(i)))
		}(i)
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}

	records, err := store.ListRecords("/src/add.js", 0)
	require.NoError(t, err)
	assert.Len(t, records, 8)
}
