package types

import (
	"context"
	"errors"
)

// UserStore is the data access contract for users. Lookups return a nil
// user and a nil error when no row matches.
type UserStore interface {
	// CreateUser inserts a user and returns its generated ID.
	// Returns ErrDuplicateEmail if the email already exists.
	CreateUser(ctx context.Context, name, email, password string) (int64, error)

	// ListUsers returns every user, most recently created first.
	ListUsers(ctx context.Context) ([]User, error)

	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateUser changes only the fields present in upd. It returns false
	// without writing when upd is empty, and true iff a row changed.
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (bool, error)

	// DeleteUser removes a user; the store cascades to its favorites.
	DeleteUser(ctx context.Context, id int64) (bool, error)

	// ClearUsers removes every user and, by cascade, every favorite.
	ClearUsers(ctx context.Context) error
}

// FavoriteStore is the data access contract for favorites.
type FavoriteStore interface {
	// AddFavorite inserts a favorite without de-duplication.
	// Returns ErrUnknownUser if userID does not reference a user.
	AddFavorite(ctx context.Context, userID int64, cityName, timezone string) (int64, error)

	// ListFavorites returns a user's favorites, most recently saved first.
	ListFavorites(ctx context.Context, userID int64) ([]Favorite, error)

	DeleteFavorite(ctx context.Context, id int64) (bool, error)
	ClearFavorites(ctx context.Context, userID int64) error
}

// Store is the full persistence contract.
type Store interface {
	UserStore
	FavoriteStore

	// Close releases the store handle.
	Close() error
}

// Store errors.
var (
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrUnknownUser         = errors.New("user does not exist")
	ErrStoreClosed         = errors.New("store is closed")
	ErrForeignKeysDisabled = errors.New("foreign key enforcement is disabled")
)
