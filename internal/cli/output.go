package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

const (
	clockLayout = "15:04:05"
	dateLayout  = "2006-01-02 15:04:05"
	unavailable = "Unable to load time"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("could not format output", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// userView is the printable form of a user. The password never leaves
// the store through the CLI.
type userView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func viewUser(u types.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func printUsers(w io.Writer, users []types.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCREATED")
	fmt.Fprintln(tw, "--\t----\t-----\t-------")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.Local().Format(dateLayout))
	}
	tw.Flush()
}

// readingView is the printable form of a clock board reading.
type readingView struct {
	Position int    `json:"position"`
	City     string `json:"city"`
	Timezone string `json:"timezone,omitempty"`
	Time     string `json:"time,omitempty"`
	Error    string `json:"error,omitempty"`
}

func viewReadings(readings []types.CityTime) []readingView {
	views := make([]readingView, len(readings))
	for i, r := range readings {
		v := readingView{Position: i + 1, City: r.City.Name}
		if r.OK() {
			v.Timezone = r.Timezone
			v.Time = r.Local().Format(time.RFC3339)
		} else {
			v.Error = unavailable
		}
		views[i] = v
	}
	return views
}

func printReadings(w io.Writer, readings []types.CityTime) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range readings {
		if !r.OK() {
			fmt.Fprintf(tw, "%d.\t%s\t%s\t\n", i+1, r.City.Name, unavailable)
			continue
		}
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\n", i+1, r.City.Name, r.Local().Format(clockLayout), r.Timezone)
	}
	tw.Flush()
}

// favoriteView is the printable form of a favorite with the current time
// in its zone.
type favoriteView struct {
	ID        int64     `json:"id"`
	City      string    `json:"city"`
	Timezone  string    `json:"timezone"`
	LocalTime string    `json:"local_time"`
	SavedAt   time.Time `json:"saved_at"`
}

func viewFavorites(favs []types.Favorite, now time.Time) []favoriteView {
	views := make([]favoriteView, len(favs))
	for i, f := range favs {
		views[i] = favoriteView{
			ID:        f.ID,
			City:      f.CityName,
			Timezone:  f.Timezone,
			LocalTime: f.Local(now).Format(clockLayout),
			SavedAt:   f.SavedAt,
		}
	}
	return views
}

func printFavorites(w io.Writer, favs []types.Favorite, now time.Time) {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites saved")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCITY\tTIME\tTIMEZONE\tSAVED")
	fmt.Fprintln(tw, "--\t----\t----\t--------\t-----")
	for _, v := range viewFavorites(favs, now) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.City, v.LocalTime, v.Timezone, v.SavedAt.Local().Format(dateLayout))
	}
	tw.Flush()
}

// parseID parses a positive record id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError(fmt.Sprintf("invalid id %q", s), err)
	}
	return id, nil
}
