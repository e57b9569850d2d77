package types

import (
	"errors"
	"time"
	_ "time/tzdata"
)

// City is one entry of the clock board.
type City struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

// DefaultCities are the South American capitals shown on the clock board.
var DefaultCities = []City{
	{Name: "Bogotá", Timezone: "America/Bogota"},
	{Name: "Buenos Aires", Timezone: "America/Argentina/Buenos_Aires"},
	{Name: "São Paulo", Timezone: "America/Sao_Paulo"},
	{Name: "Lima", Timezone: "America/Lima"},
	{Name: "Santiago", Timezone: "America/Santiago"},
}

// ErrTimeUnavailable marks a city whose remote time could not be fetched.
var ErrTimeUnavailable = errors.New("time unavailable")

// ZoneTime is the answer of the remote time source for one zone.
type ZoneTime struct {
	// UTC is the current instant reported by the source.
	UTC time.Time

	// Timezone is the zone name echoed back by the source.
	Timezone string

	// Offset is the UTC offset string, e.g. -05:00.
	Offset string
}

// CityTime is a displayed clock reading. Exactly one of Time/Err is
// meaningful: when Err is set the reading is an error marker and Timezone
// is empty.
type CityTime struct {
	City     City      `json:"city"`
	Time     time.Time `json:"time"`
	Timezone string    `json:"timezone,omitempty"`
	Err      error     `json:"-"`
}

// OK reports whether the reading carries a valid time.
func (c CityTime) OK() bool {
	return c.Err == nil && !c.Time.IsZero()
}

// Local returns the reading in the city's zone, or UTC when the zone cannot
// be loaded.
func (c CityTime) Local() time.Time {
	zone := c.Timezone
	if zone == "" {
		zone = c.City.Timezone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return c.Time.UTC()
	}
	return c.Time.In(loc)
}

// Advance returns the reading moved forward by d. Error markers are
// returned unchanged.
func (c CityTime) Advance(d time.Duration) CityTime {
	if !c.OK() {
		return c
	}
	c.Time = c.Time.Add(d)
	return c
}
