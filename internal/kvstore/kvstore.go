// Package kvstore persists whole text snapshots under string keys.
//
// Backends:
//   - file:   one file per key under a directory
//   - bolt:   a single bbolt database, one bucket
//   - sqlite: a single SQLite database, one key/value table
//   - memory: process-local map (tests, --storage=memory)
//
// Callers always read and write complete values; there is no partial or query access.
package kvstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a key-value text store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("kvstore: invalid key %q", key)
	}
	return nil
}

// Open returns the backend named by backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendBolt:
		return OpenBolt(filepath.Join(dir, "simplemath.bolt"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "simplemath.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: file, bolt, sqlite, memory)", backend)
	}
}
