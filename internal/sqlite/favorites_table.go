// This file implements the favorites accessors of the SQLite store.
package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

func scanFavorite(row rowScanner) (types.Favorite, error) {
	var (
		f       types.Favorite
		savedAt sqlTime
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.CityName, &f.Timezone, &savedAt); err != nil {
		return types.Favorite{}, err
	}
	f.SavedAt = savedAt.Time
	return f, nil
}

// AddFavorite saves a city/timezone pair for a user. The same pair may be
// saved any number of times.
func (s *Store) AddFavorite(ctx context.Context, userID int64, cityName, timezone string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, city_name, timezone) VALUES (?, ?, ?)",
		userID, cityName, timezone,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("adding favorite for user %d: %w", userID, types.ErrUnknownUser)
		}
		return 0, fmt.Errorf("adding favorite: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading favorite id: %w", err)
	}
	return id, nil
}

// ListFavorites returns a user's favorites, most recently saved first.
// saved_at has second resolution, so id breaks ties between rows saved in
// the same second.
func (s *Store) ListFavorites(ctx context.Context, userID int64) ([]types.Favorite, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+favoriteColumns+" FROM favorites WHERE user_id = ? ORDER BY saved_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing favorites for user %d: %w", userID, err)
	}
	defer rows.Close()

	var favorites []types.Favorite
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return favorites, nil
}

// DeleteFavorite removes one favorite by ID.
func (s *Store) DeleteFavorite(ctx context.Context, id int64) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting favorite %d: %w", id, err)
	}
	return rowsChanged(res)
}

// ClearFavorites removes every favorite of one user.
func (s *Store) ClearFavorites(ctx context.Context, userID int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM favorites WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clearing favorites for user %d: %w", userID, err)
	}
	return nil
}
