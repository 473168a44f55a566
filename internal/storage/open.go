package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"aetheris/internal/core/model"
)

// KeyValue is implemented by every store in this package.
type KeyValue interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, record map[string][]byte) error
}

// Open returns the store selected by backend, rooted in dir. The returned
// close function releases it.
func Open(backend model.StorageBackend, dir string) (KeyValue, func() error, error) {
	switch backend {
	case model.StorageYAML:
		return NewYAMLStore(filepath.Join(dir, StateFileName)), func() error { return nil }, nil
	case model.StorageSQLite, "":
		store, err := OpenSQLiteStore(filepath.Join(dir, DatabaseFileName))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
