package types

import (
	"strings"
	"time"
)

// MinPasswordLength is the shortest password registration accepts.
const MinPasswordLength = 6

// User is a registered account.
type User struct {
	// ID is generated by the store and stable for the record's lifetime.
	ID int64 `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is unique across all users; login looks it up by exact match.
	Email string `json:"email"`

	// Password is stored and compared verbatim. It is never serialized.
	Password string `json:"-"`

	// CreatedAt is set by the store on insert.
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdate is a partial update of a User. A nil or empty field is absent
// and left unchanged.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UserField is one column/value pair of a UserUpdate.
type UserField struct {
	Column string
	Value  string
}

// Fields returns the present fields in column order. An empty result means
// the update is a no-op.
func (u UserUpdate) Fields() []UserField {
	var fields []UserField
	add := func(column string, v *string) {
		if v != nil && *v != "" {
			fields = append(fields, UserField{Column: column, Value: *v})
		}
	}
	add("name", u.Name)
	add("email", u.Email)
	add("password", u.Password)
	return fields
}

// Empty reports whether the update carries no recognized field.
func (u UserUpdate) Empty() bool {
	return len(u.Fields()) == 0
}

// CheckPassword compares the candidate with the stored password.
// The comparison is plain text; see DESIGN.md.
func (u *User) CheckPassword(candidate string) bool {
	return u != nil && u.Password == candidate
}

// Registration is the trimmed input of a new account.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// NewRegistration trims the raw input and validates it.
func NewRegistration(name, email, password string) (Registration, error) {
	r := Registration{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return Registration{}, ErrMissingFields
	}
	if len([]rune(r.Password)) < MinPasswordLength {
		return Registration{}, ErrPasswordTooShort
	}
	return r, nil
}

// StringPtr returns a pointer to s; handy for building a UserUpdate.
func StringPtr(s string) *string {
	return &s
}
