package kvstore

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore implements Store in memory. Values still round-trip through
// JSON so it behaves like the persisted backends.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(key string, dst any) (bool, error) {
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

func (s *MemoryStore) Set(key string, value any) error {
	return s.SetMany(map[string]any{key: value})
}

func (s *MemoryStore) SetMany(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value for %q: %w", k, err)
		}
		s.data[k] = raw
	}
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string][]byte{}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
