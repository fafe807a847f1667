package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store as a single JSON document on disk.
// The whole document is rewritten on every change.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewFileStore opens the JSON document at path, creating an empty one in
// memory if it does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &FileStore{path: path, data: map[string]json.RawMessage{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("failed to parse store file: %w", err)
		}
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Get decodes the value stored under key into dst.
func (s *FileStore) Get(key string, dst any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, &DecodeError{Key: key, Err: err}
	}
	return true, nil
}

// Set stores value under key.
func (s *FileStore) Set(key string, value any) error {
	return s.SetMany(map[string]any{key: value})
}

// SetMany stores several values in one write.
func (s *FileStore) SetMany(values map[string]any) error {
	encoded := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value for %q: %w", k, err)
		}
		encoded[k] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]json.RawMessage, len(s.data)+len(encoded))
	for k, v := range s.data {
		next[k] = v
	}
	for k, v := range encoded {
		next[k] = v
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Delete removes key.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	next := make(map[string]json.RawMessage, len(s.data))
	for k, v := range s.data {
		if k != key {
			next[k] = v
		}
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Clear removes every key.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := map[string]json.RawMessage{}
	if err := s.write(empty); err != nil {
		return err
	}
	s.data = empty
	return nil
}

// Close is a no-op; every change is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// write replaces the document on disk using an atomic rename.
// Caller must hold the write lock.
func (s *FileStore) write(data map[string]json.RawMessage) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.path); err != nil {
		// Clean up temp file on rename failure
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
