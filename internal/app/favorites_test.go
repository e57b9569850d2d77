package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

func registerUser(t *testing.T, svc *Service, email string) *types.User {
	t.Helper()
	user, err := svc.Register(context.Background(), "User", email, "secret1")
	require.NoError(t, err)
	return user
}

func TestSaveFavorite(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ana@x.io")

	reading := types.CityTime{
		City:     types.City{Name: "Lima", Timezone: "America/Lima"},
		Time:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Timezone: "America/Lima",
	}
	id, err := svc.SaveFavorite(ctx, user.ID, reading)
	require.NoError(t, err)
	assert.Positive(t, id)

	favs, err := svc.Favorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Lima", favs[0].CityName)
	assert.Equal(t, "America/Lima", favs[0].Timezone)
}

func TestSaveFavoriteRejectsErrorMarker(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ana@x.io")

	tests := []struct {
		name    string
		reading types.CityTime
	}{
		{"error marker", types.CityTime{City: types.DefaultCities[0], Err: errors.New("503")}},
		{"empty timezone", types.CityTime{City: types.DefaultCities[0], Time: time.Now()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveFavorite(ctx, user.ID, tt.reading)
			assert.ErrorIs(t, err, types.ErrTimezoneUnavailable)
			assert.Equal(t, "timezone unavailable for this city", Message(OpSaveFavorite, err))
		})
	}

	favs, err := svc.Favorites(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestAddFavoriteValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ana@x.io")

	_, err := svc.AddFavorite(ctx, 0, "Lima", "America/Lima")
	assert.ErrorIs(t, err, types.ErrInvalidUser)

	_, err = svc.AddFavorite(ctx, user.ID, "Lima", "  ")
	assert.ErrorIs(t, err, types.ErrTimezoneUnavailable)

	_, err = svc.AddFavorite(ctx, user.ID, "", "America/Lima")
	assert.ErrorIs(t, err, types.ErrMissingFields)

	_, err = svc.AddFavorite(ctx, user.ID+100, "Lima", "America/Lima")
	assert.ErrorIs(t, err, types.ErrUnknownUser)
	assert.True(t, IsUserError(err))
}

func TestFavoritesNewestFirst(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ana@x.io")

	first, err := svc.AddFavorite(ctx, user.ID, "Lima", "America/Lima")
	require.NoError(t, err)
	second, err := svc.AddFavorite(ctx, user.ID, "Santiago", "America/Santiago")
	require.NoError(t, err)

	favs, err := svc.Favorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, second, favs[0].ID)
	assert.Equal(t, first, favs[1].ID)

	_, err = svc.Favorites(ctx, 0)
	assert.ErrorIs(t, err, types.ErrInvalidUser)
}

func TestRemoveAndClearFavorites(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	ana := registerUser(t, svc, "ana@x.io")
	bob := registerUser(t, svc, "bob@x.io")

	id, err := svc.AddFavorite(ctx, ana.ID, "Lima", "America/Lima")
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, ana.ID, "Bogotá", "America/Bogota")
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, bob.ID, "Lima", "America/Lima")
	require.NoError(t, err)

	removed, err := svc.RemoveFavorite(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.RemoveFavorite(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, svc.ClearFavorites(ctx, ana.ID))

	favs, err := svc.Favorites(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
	favs, err = svc.Favorites(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestFavoriteStoreFailures(t *testing.T) {
	svc := New(brokenStore{}, nil)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, 1, "Lima", "America/Lima")
	assert.ErrorIs(t, err, errDiskIO)
	assert.Equal(t, "could not save the favorite", Message(OpSaveFavorite, err))

	_, err = svc.Favorites(ctx, 1)
	assert.ErrorIs(t, err, errDiskIO)

	_, err = svc.RemoveFavorite(ctx, 1)
	assert.ErrorIs(t, err, errDiskIO)

	assert.ErrorIs(t, svc.ClearFavorites(ctx, 1), errDiskIO)
}
