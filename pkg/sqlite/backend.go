// Package sqlite provides the public API for the SQLite capitals store.
// This package exposes the factory function for opening a store while
// keeping implementation details internal.
package sqlite

import (
	"context"

	"github.com/mesh-intelligence/capitals/internal/sqlite"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

// Open opens (or creates) the store described by config and initializes
// its schema. The caller must Close the returned store.
//
// Example:
//
//	store, err := sqlite.Open(ctx, types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dataDir,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(ctx context.Context, config types.Config) (types.Store, error) {
	s, err := sqlite.Open(ctx, config)
	if err != nil {
		return nil, err
	}
	return s, nil
}
