package types

import "time"

// Favorite is a city/timezone pair bookmarked by a user.
type Favorite struct {
	// ID is generated by the store.
	ID int64 `json:"id"`

	// UserID references the owning User. Deleting the user deletes the
	// favorite.
	UserID int64 `json:"user_id"`

	// CityName is the display name of the city.
	CityName string `json:"city_name"`

	// Timezone is an IANA zone name, e.g. America/Bogota.
	Timezone string `json:"timezone"`

	// SavedAt defaults to the insertion time.
	SavedAt time.Time `json:"saved_at"`
}

// Local returns now rendered in the favorite's timezone. An unknown zone
// falls back to UTC.
func (f Favorite) Local(now time.Time) time.Time {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return now.UTC()
	}
	return now.In(loc)
}
