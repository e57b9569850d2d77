package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

func createUser(t *testing.T, s *Store, email string) int64 {
	t.Helper()
	id, err := s.CreateUser(context.Background(), "user", email, "secret1")
	require.NoError(t, err)
	return id
}

func TestAddFavorite(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "a@x.com")

	id, err := s.AddFavorite(ctx, uid, "Bogotá", "America/Bogota")
	require.NoError(t, err)
	assert.Positive(t, id)

	favs, err := s.ListFavorites(ctx, uid)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, id, favs[0].ID)
	assert.Equal(t, uid, favs[0].UserID)
	assert.Equal(t, "Bogotá", favs[0].CityName)
	assert.Equal(t, "America/Bogota", favs[0].Timezone)
	assert.False(t, favs[0].SavedAt.IsZero())
}

func TestAddFavoriteNoDeduplication(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "a@x.com")

	first, err := s.AddFavorite(ctx, uid, "Lima", "America/Lima")
	require.NoError(t, err)
	second, err := s.AddFavorite(ctx, uid, "Lima", "America/Lima")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	favs, err := s.ListFavorites(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, favs, 2)
}

func TestAddFavoriteUnknownUser(t *testing.T) {
	s := setupStore(t)

	_, err := s.AddFavorite(context.Background(), 12345, "Lima", "America/Lima")
	assert.ErrorIs(t, err, types.ErrUnknownUser)
	assert.Zero(t, countRows(t, s, "favorites"))
}

func TestListFavoritesNewestFirst(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "a@x.com")

	f1, err := s.AddFavorite(ctx, uid, "Lima", "America/Lima")
	require.NoError(t, err)
	f2, err := s.AddFavorite(ctx, uid, "Santiago", "America/Santiago")
	require.NoError(t, err)

	favs, err := s.ListFavorites(ctx, uid)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, []int64{f2, f1}, []int64{favs[0].ID, favs[1].ID})
}

func TestListFavoritesOrderUsesSavedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "a@x.com")

	older, err := s.AddFavorite(ctx, uid, "Lima", "America/Lima")
	require.NoError(t, err)
	newer, err := s.AddFavorite(ctx, uid, "Santiago", "America/Santiago")
	require.NoError(t, err)

	// A row with a higher id but an earlier saved_at sorts last.
	_, err = s.db.Exec("UPDATE favorites SET saved_at = '2000-01-01 00:00:00' WHERE id = ?", newer)
	require.NoError(t, err)

	favs, err := s.ListFavorites(ctx, uid)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, older, favs[0].ID)
	assert.Equal(t, newer, favs[1].ID)
}

func TestListFavoritesScopedToUser(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := createUser(t, s, "a@x.com")
	b := createUser(t, s, "b@x.com")

	_, err := s.AddFavorite(ctx, a, "Lima", "America/Lima")
	require.NoError(t, err)

	favs, err := s.ListFavorites(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestDeleteFavorite(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	uid := createUser(t, s, "a@x.com")

	id, err := s.AddFavorite(ctx, uid, "Lima", "America/Lima")
	require.NoError(t, err)
	keep, err := s.AddFavorite(ctx, uid, "Santiago", "America/Santiago")
	require.NoError(t, err)

	ok, err := s.DeleteFavorite(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteFavorite(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	favs, err := s.ListFavorites(ctx, uid)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, keep, favs[0].ID)
}

func TestClearFavorites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := createUser(t, s, "a@x.com")
	b := createUser(t, s, "b@x.com")

	for _, c := range types.DefaultCities {
		_, err := s.AddFavorite(ctx, a, c.Name, c.Timezone)
		require.NoError(t, err)
	}
	_, err := s.AddFavorite(ctx, b, "Lima", "America/Lima")
	require.NoError(t, err)

	require.NoError(t, s.ClearFavorites(ctx, a))

	favs, err := s.ListFavorites(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, favs)

	favs, err = s.ListFavorites(ctx, b)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	u, err := s.GetUserByID(ctx, a)
	require.NoError(t, err)
	assert.NotNil(t, u, "clearing favorites keeps the user")
}
