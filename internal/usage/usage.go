// Package usage tracks when templates are used so the selector can
// surface the most relevant ones first.
package usage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/spiffcs/tracker/internal/log"
)

// Record is the usage entry for one template, keyed by template name.
type Record struct {
	LastUsed time.Time `json:"last_used"`
	UseCount int       `json:"use_count"`
}

// Store persists usage records as a single JSON document.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a usage store under the user cache directory.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(cacheDir, "tracker")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Store{path: filepath.Join(dir, "usage.json")}, nil
}

// NewStoreWithPath creates a store at the given path (for testing).
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Touch records one use of the named template.
func (s *Store) Touch(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	rec := records[name]
	rec.LastUsed = time.Now().UTC()
	rec.UseCount++
	records[name] = rec

	return s.writeAll(records)
}

// Record returns the usage entry for the named template; the zero value
// means it has never been used.
func (s *Store) Record(name string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()[name]
}

// All returns every usage record keyed by template name.
func (s *Store) All() map[string]Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

// readAll loads the store; a missing or malformed file is an empty store.
func (s *Store) readAll() map[string]Record {
	records := map[string]Record{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug("could not read usage store, starting fresh", "error", err)
		}
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		log.Debug("malformed usage store, starting fresh", "error", err)
		return map[string]Record{}
	}
	return records
}

func (s *Store) writeAll(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.path, bytes.NewReader(data))
}
