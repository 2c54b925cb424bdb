package vibematch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultIndexFind(t *testing.T) {
	idx := NewResultIndex([]ResultRow{
		{Name: "Alice Smith", Group: "12-A", MatchName: "Bob", Matched: true},
		{Name: "Cleo", Group: "12-C", Message: NotPairedMessage},
	})
	assert.Equal(t, 2, idx.Len())

	r, ok := idx.Find("  alice   SMITH ", "12-a")
	require.True(t, ok)
	assert.Equal(t, "Bob", r.MatchName)

	_, ok = idx.Find("Alice Smith", "12-B")
	assert.False(t, ok)

	idx.Replace(nil)
	_, ok = idx.Find("Cleo", "12-C")
	assert.False(t, ok)
}

func TestLoadResultIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteResultsCSV(path, []ResultRow{{Name: "Dana", Group: "D", MatchName: "Eve", Matched: true, Score: 50}}))

	idx, err := LoadResultIndex(path)
	require.NoError(t, err)
	r, ok := idx.Find("dana", "d")
	require.True(t, ok)
	assert.Equal(t, "Eve", r.MatchName)

	_, err = LoadResultIndex(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
