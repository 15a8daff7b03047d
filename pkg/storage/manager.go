package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager handles image file storage and duplicate detection. Saved images
// are named for their record's date plus the source extension, so the file
// for a date can be found without consulting the record store.
type Manager struct {
	imageDir string
	saved    map[string]string // date -> filename
	mu       sync.RWMutex
}

// NewManager creates a new storage manager rooted at imageDir
func NewManager(imageDir string) (*Manager, error) {
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	manager := &Manager{
		imageDir: imageDir,
		saved:    make(map[string]string),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing images: %w", err)
	}

	return manager, nil
}

// scanExistingFiles indexes already saved images by their date prefix
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.imageDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tmp") {
			// Leftover from an interrupted save, never a valid image
			continue
		}
		date := strings.TrimSuffix(name, filepath.Ext(name))
		if date == "" {
			continue
		}
		m.saved[date] = name
	}

	return nil
}

// Exists reports whether an image for the given date has been saved
func (m *Manager) Exists(date string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.saved[date]
	return ok
}

// Filename returns the saved image file name for a date
func (m *Manager) Filename(date string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.saved[date]
	return name, ok
}

// Save writes an image from the given reader under filename, atomically via
// a temp file and rename
func (m *Manager) Save(date, filename string, r io.Reader) error {
	target := filepath.Join(m.imageDir, filename)

	tempFile := target + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.saved[date] = filename
	m.mu.Unlock()

	return nil
}

// ImageDir returns the image directory path
func (m *Manager) ImageDir() string {
	return m.imageDir
}

// Count returns the number of saved images
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
