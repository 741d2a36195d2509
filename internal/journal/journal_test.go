package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efestolab/ade/internal/parse"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "ade", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAssignsIDAndDefaults(t *testing.T) {
	j := openTestJournal(t)

	id, err := j.Record(Run{Mode: "create", Template: "@+show+@", Root: "/tmp"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, StatusOK, runs[0].Status)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestRecordRoundTripsBindings(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.Record(Run{
		Mode:     "parse",
		Template: "@+show+@",
		Root:     "/tmp/white",
		Bindings: []parse.Bindings{
			{"show": "white", "sequence": "AF", "shot": "AF001"},
			{"show": "white"},
		},
	})
	require.NoError(t, err)

	runs, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Len(t, runs[0].Bindings, 2)
	assert.Equal(t, "AF001", runs[0].Bindings[0]["shot"])
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	j := openTestJournal(t)

	base := time.Now().Add(-time.Hour)
	for i, tpl := range []string{"first", "second", "third"} {
		_, err := j.Record(Run{
			Mode:       "create",
			Template:   tpl,
			Root:       "/tmp",
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := j.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "third", runs[0].Template)
	assert.Equal(t, "second", runs[1].Template)
}

func TestRecordFailedRun(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.Record(Run{
		Mode:     "parse",
		Template: "@+show+@",
		Root:     "/projects/white",
		Status:   StatusFailed,
		Error:    "path not under mount point",
	})
	require.NoError(t, err)

	runs, err := j.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "mount point")
}
