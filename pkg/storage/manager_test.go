package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images", "nested")

	m, err := NewManager(dir)
	require.NoError(t, err)

	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, m.ImageDir())
	assert.Equal(t, 0, m.Count())
}

func TestNewManagerScansExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2023-10-01.jpg"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2023-10-02.png"), []byte("x"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.True(t, m.Exists("2023-10-01"))
	assert.True(t, m.Exists("2023-10-02"))
	assert.False(t, m.Exists("2023-10-03"))
	assert.Equal(t, 2, m.Count())

	name, ok := m.Filename("2023-10-02")
	require.True(t, ok)
	assert.Equal(t, "2023-10-02.png", name)
}

func TestScanIgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2023-10-01.jpg"), []byte("x"), 0644))
	// Leftover from an interrupted save
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2023-10-02.jpg.tmp"), []byte("x"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.True(t, m.Exists("2023-10-01"))
	assert.False(t, m.Exists("2023-10-02"))
	assert.False(t, m.Exists("2023-10-02.jpg"))
	assert.Equal(t, 1, m.Count())
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	require.NoError(t, m.Save("2023-10-01", "2023-10-01.jpg", bytes.NewReader(payload)))

	// Byte-for-byte on disk
	got, readErr := os.ReadFile(filepath.Join(dir, "2023-10-01.jpg"))
	require.NoError(t, readErr)
	assert.Equal(t, payload, got)

	assert.True(t, m.Exists("2023-10-01"))
	assert.Equal(t, 1, m.Count())

	// No temp file left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, m.Save("2023-10-01", "2023-10-01.jpg", bytes.NewReader([]byte("first"))))
	require.NoError(t, m.Save("2023-10-01", "2023-10-01.jpg", bytes.NewReader([]byte("second"))))

	got, readErr := os.ReadFile(filepath.Join(dir, "2023-10-01.jpg"))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("second"), got)
	assert.Equal(t, 1, m.Count())
}

func TestExistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewManager(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save("2023-10-01", "2023-10-01.jpg", bytes.NewReader([]byte("img"))))

	// A fresh manager over the same directory sees the prior download
	second, err := NewManager(dir)
	require.NoError(t, err)
	assert.True(t, second.Exists("2023-10-01"))
}
