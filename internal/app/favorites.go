package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// SaveFavorite bookmarks a clock board reading for userID. Readings that
// failed to load carry no timezone and cannot be saved.
func (s *Service) SaveFavorite(ctx context.Context, userID int64, reading types.CityTime) (int64, error) {
	if !reading.OK() || reading.Timezone == "" {
		return 0, s.fail(ctx, OpSaveFavorite, types.ErrTimezoneUnavailable,
			"user_id", userID, "city", reading.City.Name)
	}
	return s.AddFavorite(ctx, userID, reading.City.Name, reading.Timezone)
}

// AddFavorite bookmarks a city and timezone for userID.
func (s *Service) AddFavorite(ctx context.Context, userID int64, cityName, timezone string) (int64, error) {
	cityName = strings.TrimSpace(cityName)
	timezone = strings.TrimSpace(timezone)

	switch {
	case userID <= 0:
		return 0, s.fail(ctx, OpSaveFavorite, types.ErrInvalidUser, "user_id", userID)
	case timezone == "":
		return 0, s.fail(ctx, OpSaveFavorite, types.ErrTimezoneUnavailable, "user_id", userID, "city", cityName)
	case cityName == "":
		return 0, s.fail(ctx, OpSaveFavorite, types.ErrMissingFields, "user_id", userID)
	}

	id, err := s.store.AddFavorite(ctx, userID, cityName, timezone)
	if err != nil {
		return 0, s.fail(ctx, OpSaveFavorite, fmt.Errorf("add favorite: %w", err),
			"user_id", userID, "city", cityName, "zone", timezone)
	}

	s.log.InfoContext(ctx, "favorite saved", "user_id", userID, "favorite_id", id, "city", cityName)
	return id, nil
}

// Favorites lists a user's favorites, most recently saved first.
func (s *Service) Favorites(ctx context.Context, userID int64) ([]types.Favorite, error) {
	if userID <= 0 {
		return nil, s.fail(ctx, OpListFavorites, types.ErrInvalidUser, "user_id", userID)
	}
	favs, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, OpListFavorites, fmt.Errorf("list favorites: %w", err), "user_id", userID)
	}
	return favs, nil
}

// RemoveFavorite deletes one favorite. It reports whether a row was
// removed.
func (s *Service) RemoveFavorite(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.DeleteFavorite(ctx, id)
	if err != nil {
		return false, s.fail(ctx, OpRemoveFavorite, fmt.Errorf("delete favorite %d: %w", id, err), "favorite_id", id)
	}
	return removed, nil
}

// ClearFavorites deletes every favorite of userID.
func (s *Service) ClearFavorites(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return s.fail(ctx, OpClearFavorites, types.ErrInvalidUser, "user_id", userID)
	}
	if err := s.store.ClearFavorites(ctx, userID); err != nil {
		return s.fail(ctx, OpClearFavorites, fmt.Errorf("clear favorites: %w", err), "user_id", userID)
	}
	return nil
}
