package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/capitals/internal/sqlite"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

var errDiskIO = errors.New("disk I/O error")

func setupService(t *testing.T) (*Service, *bytes.Buffer) {
	t.Helper()
	store, err := sqlite.Open(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(store, log), &buf
}

// brokenStore fails every call with errDiskIO.
type brokenStore struct{}

func (brokenStore) CreateUser(context.Context, string, string, string) (int64, error) {
	return 0, errDiskIO
}
func (brokenStore) ListUsers(context.Context) ([]types.User, error) { return nil, errDiskIO }
func (brokenStore) GetUserByID(context.Context, int64) (*types.User, error) {
	return nil, errDiskIO
}
func (brokenStore) GetUserByEmail(context.Context, string) (*types.User, error) {
	return nil, errDiskIO
}
func (brokenStore) UpdateUser(context.Context, int64, types.UserUpdate) (bool, error) {
	return false, errDiskIO
}
func (brokenStore) DeleteUser(context.Context, int64) (bool, error) { return false, errDiskIO }
func (brokenStore) ClearUsers(context.Context) error                { return errDiskIO }
func (brokenStore) AddFavorite(context.Context, int64, string, string) (int64, error) {
	return 0, errDiskIO
}
func (brokenStore) ListFavorites(context.Context, int64) ([]types.Favorite, error) {
	return nil, errDiskIO
}
func (brokenStore) DeleteFavorite(context.Context, int64) (bool, error) { return false, errDiskIO }
func (brokenStore) ClearFavorites(context.Context, int64) error         { return errDiskIO }
func (brokenStore) Close() error                                        { return nil }
