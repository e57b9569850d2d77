// This file implements the users accessors of the SQLite store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*types.User, error) {
	var (
		u         types.User
		createdAt sqlTime
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	return &u, nil
}

// CreateUser inserts a user and returns the generated ID.
func (s *Store) CreateUser(ctx context.Context, name, email, password string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (name, email, password) VALUES (?, ?, ?)",
		name, email, password,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("inserting user %s: %w", email, types.ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading user id: %w", err)
	}
	return id, nil
}

// ListUsers returns every user, most recently created first.
func (s *Store) ListUsers(ctx context.Context) ([]types.User, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// GetUserByID returns the user with the given ID, or nil if none exists.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail returns the user with exactly this email, or nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return s.getUser(ctx, "email", email)
}

// getUser looks a user up by a fixed column; column is never caller input.
func (s *Store) getUser(ctx context.Context, column string, value any) (*types.User, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}
	return u, nil
}

// UpdateUser writes only the fields present in upd. No statement is issued
// for an empty update.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd types.UserUpdate) (bool, error) {
	fields := upd.Fields()
	if len(fields) == 0 {
		return false, nil
	}

	db, err := s.conn()
	if err != nil {
		return false, err
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		sets = append(sets, f.Column+" = ?")
		args = append(args, f.Value)
	}
	args = append(args, id)

	res, err := db.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("updating user %d: %w", id, types.ErrDuplicateEmail)
		}
		return false, fmt.Errorf("updating user %d: %w", id, err)
	}
	return rowsChanged(res)
}

// DeleteUser removes a user. Favorites go with it through ON DELETE CASCADE.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting user %d: %w", id, err)
	}
	return rowsChanged(res)
}

// ClearUsers removes every user and, by cascade, every favorite.
func (s *Store) ClearUsers(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("clearing users: %w", err)
	}
	return nil
}
