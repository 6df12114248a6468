// Package cache provides disk-backed caching of query results. Each
// entry is one JSON file named by its key; expiry is checked lazily on
// every read and corrupt entries are treated as misses, never as errors.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spiffcs/tracker/internal/log"
)

// entry is the on-disk record for one cached query result.
type entry struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetchedAt"`
	TTL       time.Duration   `json:"ttl"`
}

// Store is a content-addressed, TTL-bounded cache persisted to disk so
// process restarts keep a warm cache. Construct one explicitly and pass
// it to the fetch layer; tests substitute a store rooted in a temp dir.
type Store struct {
	dir string
}

// NewStore creates a store under the user cache directory.
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(filepath.Join(cacheDir, "tracker", "queries"))
}

// NewStoreAt creates a store rooted at dir, creating it if needed.
func NewStoreAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the payload for key if a live entry exists. Expired,
// unreadable or malformed entries are all misses.
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Debug("corrupt cache entry, treating as miss", "key", key, "error", err)
		return nil, false
	}
	if e.Key != key {
		log.Debug("cache entry key mismatch, treating as miss", "key", key, "stored", e.Key)
		return nil, false
	}
	if time.Since(e.FetchedAt) > e.TTL {
		return nil, false
	}

	return e.Payload, true
}

// Put stores payload under key with the given lifetime.
func (s *Store) Put(key string, payload []byte, ttl time.Duration) error {
	e := entry{
		Key:       key,
		Payload:   payload,
		FetchedAt: time.Now(),
		TTL:       ttl,
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0600)
}

// Invalidate removes the entry for key. A missing entry is not an error.
func (s *Store) Invalidate(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all entries. An empty store clears successfully.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, ent := range entries {
		if err := os.Remove(filepath.Join(s.dir, ent.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the total and still-live entry counts.
func (s *Store) Stats() (total, valid int, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	now := time.Now()
	for _, ent := range entries {
		data, err := os.ReadFile(filepath.Join(s.dir, ent.Name()))
		if err != nil {
			continue
		}
		total++
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		if now.Sub(e.FetchedAt) <= e.TTL {
			valid++
		}
	}
	return total, valid, nil
}
