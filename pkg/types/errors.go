package types

import "errors"

// Account and favorite validation errors.
var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidUser         = errors.New("invalid user")
	ErrTimezoneUnavailable = errors.New("timezone unavailable for this city")
)
