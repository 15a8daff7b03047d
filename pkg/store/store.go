// Package store implements the local record store: a date-keyed cache of
// APOD metadata that decides whether a day has already been fetched. It is
// loaded fully into memory at startup, mutated serially, and written back in
// full with an atomic replace. One process owns the store per invocation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"apodsaver/pkg/apod"
	"apodsaver/pkg/logger"
)

// ErrCorruptStore is returned when the persisted store exists but cannot be
// parsed. Callers must surface it rather than overwrite the file, so a
// damaged store is never silently replaced with an empty one.
var ErrCorruptStore = errors.New("record store is corrupt")

// Store is an on-disk mapping from date to APOD record
type Store struct {
	path    string
	records map[string]apod.Record
	logger  logger.Logger
}

// Load reads the persisted store at path. A missing or empty file yields an
// empty store; unparseable content yields ErrCorruptStore.
func Load(path string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Store{
		path:    path,
		records: make(map[string]apod.Record),
		logger:  log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.DebugWithFields("no record store on disk, starting empty", map[string]interface{}{
				"path": path,
			})
			return s, nil
		}
		return nil, fmt.Errorf("failed to read record store: %w", err)
	}

	// A zero-length file is how a fresh install looks before the first save
	if len(data) == 0 {
		return s, nil
	}

	var records []apod.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, path, err)
	}

	for _, record := range records {
		s.records[record.Date] = record
	}

	log.InfoWithFields("record store loaded", map[string]interface{}{
		"path":    path,
		"records": len(s.records),
	})

	return s, nil
}

// Contains reports whether a record for the given date is stored
func (s *Store) Contains(date string) bool {
	_, ok := s.records[date]
	return ok
}

// Get returns the stored record for a date
func (s *Store) Get(date string) (apod.Record, bool) {
	record, ok := s.records[date]
	return record, ok
}

// Merge inserts a record, replacing any existing record for the same date.
// The remote API is the source of truth for metadata, so re-merging a date
// always overwrites what was cached.
func (s *Store) Merge(record apod.Record) {
	if _, exists := s.records[record.Date]; exists {
		s.logger.DebugWithFields("overwriting stored record", map[string]interface{}{
			"date": record.Date,
		})
	}
	s.records[record.Date] = record
}

// MergeAll merges a batch of records, ignoring nil entries
func (s *Store) MergeAll(records []*apod.Record) {
	for _, record := range records {
		if record == nil {
			continue
		}
		s.Merge(*record)
	}
}

// Len returns the number of stored records
func (s *Store) Len() int {
	return len(s.records)
}

// Latest returns the most recent date present in the store
func (s *Store) Latest() (string, bool) {
	var latest string
	for date := range s.records {
		// ISO dates order lexicographically
		if date > latest {
			latest = date
		}
	}
	return latest, latest != ""
}

// Records returns all stored records sorted ascending by date
func (s *Store) Records() []apod.Record {
	records := make([]apod.Record, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	return records
}

// Path returns the location of the persisted store
func (s *Store) Path() string {
	return s.path
}

// Save serializes the full mapping to disk, replacing prior contents
// atomically via a temp file and rename so a crash mid-write never corrupts
// the existing store. On failure the in-memory state is untouched and a
// retry can be attempted without re-fetching.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s.Records()); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode record store: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync store file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	s.logger.DebugWithFields("record store saved", map[string]interface{}{
		"path":    s.path,
		"records": len(s.records),
	})

	return nil
}
