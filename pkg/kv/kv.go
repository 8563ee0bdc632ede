// Package kv is the key-value string store the game persists its blobs in.
// Values are opaque strings (JSON in practice) addressed by fixed keys.
package kv

import (
	"context"
	"fmt"
)

// Store is an asynchronous string store. Get reports ok=false for a key that
// was never written or has been deleted; that is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by kind rooted at path. path is ignored for
// the memory backend, a directory for the file backend and a database file for
// sqlite.
func Open(kind, path string) (Store, error) {
	switch kind {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		s, err := NewFile(path)
		if err != nil {
			return nil, fmt.Errorf("kv.Open: %w", err)
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("kv.Open: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("kv.Open: unknown backend %q", kind)
	}
}
