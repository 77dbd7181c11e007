package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownShowsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_known_shows.txt")
	keys := NewKeySet(keyA, keyB, ShowKey{Title: "AC|DC Tribute", RawText: "Sat Jul 5 ▪︎ 7PM"})

	require.NoError(t, saveKnownShows(path, keys))
	got, err := loadKnownShows(path)
	require.NoError(t, err)
	assert.Equal(t, keys, got)
}

func TestKnownShowsFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.txt")
	require.NoError(t, saveKnownShows(path, NewKeySet(keyB, keyA)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A|Jun 1\nB|Jun 2\n", string(data))
}

func TestKnownShowsOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.txt")
	require.NoError(t, saveKnownShows(path, NewKeySet(keyA, keyB)))
	require.NoError(t, saveKnownShows(path, NewKeySet(keyC)))

	got, err := loadKnownShows(path)
	require.NoError(t, err)
	assert.Equal(t, NewKeySet(keyC), got)
}

func TestLoadKnownShowsMissingFile(t *testing.T) {
	got, err := loadKnownShows(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadKnownShowsSkipsBlankAndMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.txt")
	require.NoError(t, os.WriteFile(path, []byte("A|Jun 1\r\n\ngarbage\nB|Jun 2\n"), 0o644))

	got, err := loadKnownShows(path)
	require.NoError(t, err)
	assert.Equal(t, NewKeySet(keyA, keyB), got)
}

func TestShowAddTimesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "show_add_times.json")
	addTimes := AddTimes{keyA: "2025-01-01T00:00:00Z", keyB: "2025-06-01T12:00:00-04:00"}

	require.NoError(t, saveShowAddTimes(path, addTimes))
	assert.Equal(t, addTimes, loadShowAddTimes(path))
}

func TestLoadShowAddTimesReadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show_add_times.json")
	legacy := `{
    "A|Jun 1": "2025-05-30T09:15:02.123456"
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	assert.Equal(t, AddTimes{keyA: "2025-05-30T09:15:02.123456"}, loadShowAddTimes(path))
}

func TestLoadShowAddTimesMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, loadShowAddTimes(filepath.Join(dir, "missing.json")))

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	assert.Empty(t, loadShowAddTimes(corrupt))
}

func TestSaveShowsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shows.csv")
	shows := []RawShow{
		{Title: "Zac Brown Band", DateTimeText: "Fri Jun 13, 2025 ▪︎ 7PM"},
		{Title: "Earth, Wind & Fire", DateTimeText: "Sat Jun 14"},
	}

	require.NoError(t, saveShowsToCSV(path, shows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title,date_time_str\n"+
		"Zac Brown Band,\"Fri Jun 13, 2025 ▪︎ 7PM\"\n"+
		"\"Earth, Wind & Fire\",Sat Jun 14\n", string(data))
}
