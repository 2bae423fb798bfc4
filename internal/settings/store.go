// internal/settings/store.go

// Package settings persists small gateway settings that must survive
// process restarts (recovery escalation state, among others).
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a key/value settings store. Values are JSON-compatible.
type Store interface {
	// Get decodes the value for key into dst. It reports false when the
	// key is absent, leaving dst untouched (the caller's default).
	Get(key string, dst any) (bool, error)
	Set(key string, value any) error
	Remove(key string) error
}

// FileStore keeps all settings in one JSON document on disk.
// Every Set/Remove rewrites the file through a rename so a crash never
// leaves a half-written document behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string, dst any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	raw, ok := doc[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("settings: decode %q: %w", key, err)
	}
	return true, nil
}

func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings: encode %q: %w", key, err)
	}
	doc[key] = raw
	return s.save(doc)
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.save(doc)
}

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("settings: parse %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) save(doc map[string]json.RawMessage) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("settings: mkdir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: encode document: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("settings: rename %s: %w", tmp, err)
	}
	return nil
}

// MemoryStore is an in-process Store. Values round-trip through JSON so
// it behaves exactly like FileStore.
type MemoryStore struct {
	mu  sync.Mutex
	doc map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: map[string]json.RawMessage{}}
}

func (s *MemoryStore) Get(key string, dst any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.doc[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("settings: decode %q: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("settings: encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc[key] = raw
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc, key)
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
