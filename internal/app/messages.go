package app

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// Op names a user-facing operation.
type Op string

const (
	OpRegister       Op = "register"
	OpLogin          Op = "login"
	OpListUsers      Op = "list users"
	OpUpdateProfile  Op = "update profile"
	OpDeleteAccount  Op = "delete account"
	OpClearUsers     Op = "clear users"
	OpSaveFavorite   Op = "save favorite"
	OpListFavorites  Op = "list favorites"
	OpRemoveFavorite Op = "remove favorite"
	OpClearFavorites Op = "clear favorites"
	OpSyncClocks     Op = "sync clocks"
)

var fallback = map[Op]string{
	OpRegister:       "email already exists or registration failed",
	OpLogin:          "could not log in",
	OpListUsers:      "could not load users",
	OpUpdateProfile:  "could not update the profile",
	OpDeleteAccount:  "could not delete the account",
	OpClearUsers:     "could not clear users",
	OpSaveFavorite:   "could not save the favorite",
	OpListFavorites:  "could not load favorites",
	OpRemoveFavorite: "could not delete the favorite",
	OpClearFavorites: "could not clear favorites",
	OpSyncClocks:     "could not load the time",
}

// Message returns the text shown to the user when op fails with err.
// Validation failures keep their own wording; everything else collapses
// to a generic message without technical detail.
func Message(op Op, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, types.ErrMissingFields):
		return "all fields are required"
	case errors.Is(err, types.ErrPasswordTooShort):
		return fmt.Sprintf("password must be at least %d characters", types.MinPasswordLength)
	case errors.Is(err, types.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, types.ErrTimezoneUnavailable):
		return "timezone unavailable for this city"
	case errors.Is(err, types.ErrInvalidUser):
		return "invalid user"
	case op == OpDeleteAccount && errors.Is(err, types.ErrUnknownUser):
		return "account not found"
	}
	if msg, ok := fallback[op]; ok {
		return msg
	}
	return "something went wrong"
}

// IsUserError reports whether err was caused by the user's input rather
// than by the system.
func IsUserError(err error) bool {
	for _, target := range []error{
		types.ErrMissingFields,
		types.ErrPasswordTooShort,
		types.ErrInvalidCredentials,
		types.ErrInvalidUser,
		types.ErrTimezoneUnavailable,
		types.ErrDuplicateEmail,
		types.ErrUnknownUser,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
