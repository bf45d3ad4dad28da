package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "searches.json"))
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	records, err := newTestStore(t).Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)

	rec := &Record{
		Requirement: "Go developer",
		Candidates: []*candidate.Scored{
			{Profile: candidate.Profile{Login: "octocat"}, Score: 90, Explanation: "great"},
		},
	}
	require.NoError(t, store.Append(rec))

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Timestamp.IsZero())

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Go developer", records[0].Requirement)
	require.Len(t, records[0].Candidates, 1)
	assert.Equal(t, "octocat", records[0].Candidates[0].Login)
}

func TestAppendPreservesExistingRecords(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(&Record{Requirement: "first"}))
	require.NoError(t, store.Append(&Record{Requirement: "second"}))

	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Requirement)
	assert.Equal(t, "second", records[1].Requirement)
}

func TestFileStaysValidJSONAfterEveryAppend(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(&Record{Requirement: "search"}))

		data, err := os.ReadFile(store.Path())
		require.NoError(t, err)

		var parsed []*Record
		require.NoError(t, json.Unmarshal(data, &parsed), "history must stay valid JSON")
		assert.Len(t, parsed, i+1)
	}
}

func TestConcurrentAppendsDoNotInterleave(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(&Record{Requirement: "parallel"}))
		}()
	}
	wg.Wait()

	records, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, records, 10)
}
