package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Record is a loosely typed row in a collection. Values round-trip through
// encoding/json, so numbers read back from disk are float64.
type Record = map[string]any

// defaultCollections are created when the backing file does not exist yet.
var defaultCollections = []string{"products", "categories", "favorites", "notifications"}

// Store is a flat-file JSON document store. One Store instance owns one file;
// construct it once at startup and inject it into every repository that needs
// it. Every mutating call rewrites the whole document under a single mutex,
// so read-modify-write sequences on a single call are atomic with respect to
// each other.
type Store struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	data map[string][]Record
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the Store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the document at path. A missing file is not an error: the store
// starts empty with the default collections and writes the file immediately.
// A file that exists but cannot be parsed returns ErrCorrupted; the store is
// unusable and the caller should refuse to serve.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.data = make(map[string][]Record, len(defaultCollections))
		for _, name := range defaultCollections {
			s.data[name] = []Record{}
		}
		if err := s.persist(); err != nil {
			return nil, err
		}
		s.logger.Info("store file not found, created empty document", slog.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	default:
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		s.logger.Debug("store loaded", slog.String("path", path))
	}

	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of every record in the named collection. An unknown
// collection yields an empty result, not an error.
func (s *Store) Get(collection string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneRecords(s.data[collection])
}

// Append adds a record to the named collection and rewrites the document.
func (s *Store) Append(collection string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[collection] = append(s.data[collection], cloneRecord(rec))
	return s.persist()
}

// ReplaceByID merges patch into the record whose "id" field equals id.
// It reports whether the record existed.
func (s *Store) ReplaceByID(collection string, id int64, patch Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.data[collection] {
		if RecordID(rec) != id {
			continue
		}
		merged := cloneRecord(rec)
		for k, v := range patch {
			merged[k] = v
		}
		s.data[collection][i] = merged
		return true, s.persist()
	}
	return false, nil
}

// RemoveByID deletes the record whose "id" field equals id.
// It reports whether the record existed.
func (s *Store) RemoveByID(collection string, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.data[collection]
	for i, rec := range records {
		if RecordID(rec) != id {
			continue
		}
		s.data[collection] = append(records[:i:i], records[i+1:]...)
		return true, s.persist()
	}
	return false, nil
}

// Query returns copies of the records for which keep returns true.
func (s *Store) Query(collection string, keep func(Record) bool) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, rec := range s.data[collection] {
		if keep(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

// Update runs fn against the live collection slice under the store lock and
// persists the result. Repositories use it for sequences that must be atomic,
// such as assigning the next identifier and appending in one step.
func (s *Store) Update(collection string, fn func(records []Record) []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[collection] = fn(s.data[collection])
	return s.persist()
}

// RecordID extracts the numeric "id" field of a record. JSON decoding turns
// numbers into float64, so both int64 (fresh records) and float64 (reloaded
// records) are accepted. Records without an id yield zero.
func RecordID(rec Record) int64 {
	switch v := rec["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}

// persist rewrites the whole document. Callers must hold s.mu.
// The write goes through a temp file and rename so a crash mid-write
// cannot leave a truncated document behind.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = cloneRecord(rec)
	}
	return out
}
