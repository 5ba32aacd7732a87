// Package profilecache stores derived resume profiles keyed by document identity and
// fingerprint, so an unchanged document is never re-extracted.
package profilecache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonathan/referral-scout/internal/types"
)

// Entry is one cached profile.
type Entry struct {
	Identity    string              `json:"identity"`
	Fingerprint string              `json:"fingerprint"`
	Profile     types.ResumeProfile `json:"profile"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Store persists cache entries. Get returns (nil, nil) on a miss.
type Store interface {
	Get(ctx context.Context, identity string) (*Entry, error)
	Put(ctx context.Context, entry Entry) error
}

// FileStore keeps every entry in a single JSON document on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the entry for identity, or nil when absent.
func (s *FileStore) Get(ctx context.Context, identity string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[identity]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put inserts or overwrites the entry for entry.Identity.
func (s *FileStore) Put(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.Identity == "" {
		return fmt.Errorf("cache entry identity is required")
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		// A corrupt cache is replaced rather than blocking the run.
		entries = make(map[string]Entry)
	}
	entries[entry.Identity] = entry

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace profile cache: %w", err)
	}
	return nil
}

func (s *FileStore) load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Entry), nil
		}
		return nil, fmt.Errorf("failed to read profile cache: %w", err)
	}

	entries := make(map[string]Entry)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse profile cache %s: %w", s.path, err)
	}
	return entries, nil
}
