// Package kvstore provides the persisted key/value store that holds the
// task snapshot and every widget setting.
package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// File names inside the data directory.
const (
	FileName   = "settings.json"
	SQLiteName = "settings.db"
	LockName   = "tasktray.lock"
)

// Error types for store operations.
var (
	// ErrLocked is returned when another process already owns the store.
	ErrLocked = errors.New("store is in use by another tasktray process")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// DecodeError reports a stored value that could not be decoded into the
// requested type.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode value for %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Store is a persisted map of JSON values.
type Store interface {
	// Get decodes the value stored under key into dst.
	// It reports false, with no error, when the key is absent.
	Get(key string, dst any) (bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value any) error

	// SetMany stores several values in one write.
	SetMany(values map[string]any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Clear removes every key.
	Clear() error

	// Close releases the store.
	Close() error
}

// Open opens the store for the given backend in dir and takes the
// process lock for it. The directory is created if it does not exist.
func Open(backend, dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock data directory: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	var inner Store
	switch backend {
	case BackendFile, "":
		inner, err = NewFileStore(filepath.Join(dir, FileName))
	case BackendSQLite:
		inner, err = NewSQLiteStore(filepath.Join(dir, SQLiteName))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &lockedStore{Store: inner, lock: lock}, nil
}

// lockedStore releases the process lock when closed.
type lockedStore struct {
	Store
	lock *flock.Flock
}

func (s *lockedStore) Close() error {
	err := s.Store.Close()
	if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
		err = fmt.Errorf("failed to release lock: %w", unlockErr)
	}
	return err
}
