// Package history persists completed searches to a flat JSON file. The
// file is append-only in spirit: records are never mutated or pruned,
// and every append rewrites the whole file through an atomic rename so
// it stays valid JSON at all times.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sphynx-hq/sphynx/internal/candidate"
)

// Record is a snapshot of one completed search and its results.
type Record struct {
	ID          string              `json:"id"`
	Requirement string              `json:"requirement"`
	Timestamp   time.Time           `json:"timestamp"`
	Candidates  []*candidate.Scored `json:"candidates"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads all records. A missing or empty file yields an empty list.
func (s *Store) Load() ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *Store) load() ([]*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Record{}, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	if len(data) == 0 {
		return []*Record{}, nil
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history file %q: %w", s.path, err)
	}

	return records, nil
}

// Append adds one record and rewrites the file. The write goes through
// a temp file in the same directory followed by a rename, so a crash
// mid-write never leaves a corrupted history behind.
func (s *Store) Append(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("record is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history file: %w", err)
	}

	return nil
}
