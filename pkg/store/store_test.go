package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apodsaver/pkg/apod"
	"apodsaver/pkg/logger"
)

func testRecord(date, title string) apod.Record {
	return apod.Record{
		Date:        date,
		Title:       title,
		Explanation: "an explanation",
		URL:         "https://apod.nasa.gov/apod/image/" + date + ".jpg",
		MediaType:   apod.MediaTypeImage,
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	// A missing file must not be created by Load alone
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path, logger.NewTestLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptStore)

	// The damaged file must be left in place for inspection
	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(content))
}

func TestMergeAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	assert.False(t, s.Contains("2023-10-01"))

	s.Merge(testRecord("2023-10-01", "Galaxy"))
	assert.True(t, s.Contains("2023-10-01"))
	assert.Equal(t, 1, s.Len())

	got, ok := s.Get("2023-10-01")
	require.True(t, ok)
	assert.Equal(t, "Galaxy", got.Title)
}

func TestMergeOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	s.Merge(testRecord("2023-10-01", "Old Title"))
	s.Merge(testRecord("2023-10-01", "Corrected Title"))

	assert.Equal(t, 1, s.Len())
	got, ok := s.Get("2023-10-01")
	require.True(t, ok)
	assert.Equal(t, "Corrected Title", got.Title)
}

func TestLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	_, ok := s.Latest()
	assert.False(t, ok)

	s.Merge(testRecord("2023-10-05", "b"))
	s.Merge(testRecord("2023-09-30", "a"))
	s.Merge(testRecord("2023-10-01", "c"))

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "2023-10-05", latest)
}

func TestRecordsSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	s.Merge(testRecord("2023-10-05", "b"))
	s.Merge(testRecord("1999-01-01", "a"))
	s.Merge(testRecord("2023-10-01", "c"))

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "1999-01-01", records[0].Date)
	assert.Equal(t, "2023-10-01", records[1].Date)
	assert.Equal(t, "2023-10-05", records[2].Date)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	s.Merge(testRecord("2023-10-01", "Galaxy"))
	s.Merge(testRecord("2023-10-02", "Nebula"))
	require.NoError(t, s.Save())

	// No temp file may survive a successful save
	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))

	reloaded, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	assert.Equal(t, s.Records(), reloaded.Records())
}

func TestSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "responses.json")

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	s.Merge(testRecord("2023-10-01", "Galaxy"))
	require.NoError(t, s.Save())

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestSaveWritesSortedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	s.Merge(testRecord("2023-10-05", "later"))
	s.Merge(testRecord("2023-10-01", "earlier"))
	require.NoError(t, s.Save())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var persisted []apod.Record
	require.NoError(t, json.Unmarshal(content, &persisted))
	require.Len(t, persisted, 2)
	assert.Equal(t, "2023-10-01", persisted[0].Date)
	assert.Equal(t, "2023-10-05", persisted[1].Date)
}

func TestSaveIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "responses.json")

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	s.Merge(testRecord("2023-10-01", "Galaxy"))
	s.Merge(testRecord("2023-10-02", "Nebula"))

	require.NoError(t, s.Save())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestInterruptedSaveLeavesStoreLoadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "responses.json")

	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	s.Merge(testRecord("2023-10-01", "Galaxy"))
	require.NoError(t, s.Save())

	original, err := os.ReadFile(path)
	require.NoError(t, err)

	// A crash between the temp write and the rename leaves a partial temp
	// file next to the store
	require.NoError(t, os.WriteFile(path+".tmp", []byte(`[{"date":"2023-`), 0644))

	reloaded, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
	assert.True(t, reloaded.Contains("2023-10-01"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, content)

	// The next save replaces the stale temp file and the store itself
	reloaded.Merge(testRecord("2023-10-02", "Nebula"))
	require.NoError(t, reloaded.Save())

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))

	final, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, final.Len())
}

func TestMergeAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.json")
	s, err := Load(path, logger.NewTestLogger())
	require.NoError(t, err)

	r1 := testRecord("2023-10-01", "a")
	r2 := testRecord("2023-10-02", "b")
	s.MergeAll([]*apod.Record{&r1, &r2, nil})

	assert.Equal(t, 2, s.Len())
}
