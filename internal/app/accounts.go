package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

// Register validates the fields, creates the user and returns the stored
// record.
func (s *Service) Register(ctx context.Context, name, email, password string) (*types.User, error) {
	reg, err := types.NewRegistration(name, email, password)
	if err != nil {
		return nil, s.fail(ctx, OpRegister, err, "email", strings.TrimSpace(email))
	}

	id, err := s.store.CreateUser(ctx, reg.Name, reg.Email, reg.Password)
	if err != nil {
		return nil, s.fail(ctx, OpRegister, fmt.Errorf("create user: %w", err), "email", reg.Email)
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, OpRegister, fmt.Errorf("read user %d: %w", id, err), "email", reg.Email)
	}
	if user == nil {
		return nil, s.fail(ctx, OpRegister, fmt.Errorf("read user %d: %w", id, types.ErrUnknownUser), "email", reg.Email)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login returns the user whose email and password match. An unknown email
// and a wrong password fail the same way.
//
// Passwords are stored and compared in plain text.
func (s *Service) Login(ctx context.Context, email, password string) (*types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, s.fail(ctx, OpLogin, types.ErrMissingFields)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, s.fail(ctx, OpLogin, fmt.Errorf("look up user: %w", err), "email", email)
	}
	if !user.CheckPassword(password) {
		return nil, s.fail(ctx, OpLogin, types.ErrInvalidCredentials, "email", email)
	}

	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

// Users lists every user, newest first.
func (s *Service) Users(ctx context.Context) ([]types.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, s.fail(ctx, OpListUsers, fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// UpdateProfile changes the fields present in upd. It reports whether a
// row changed.
func (s *Service) UpdateProfile(ctx context.Context, id int64, upd types.UserUpdate) (bool, error) {
	if id <= 0 {
		return false, s.fail(ctx, OpUpdateProfile, types.ErrInvalidUser, "user_id", id)
	}
	changed, err := s.store.UpdateUser(ctx, id, upd)
	if err != nil {
		return false, s.fail(ctx, OpUpdateProfile, fmt.Errorf("update user %d: %w", id, err), "user_id", id)
	}
	return changed, nil
}

// DeleteAccount removes the user and, by cascade, the user's favorites.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return s.fail(ctx, OpDeleteAccount, types.ErrInvalidUser, "user_id", userID)
	}
	removed, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return s.fail(ctx, OpDeleteAccount, fmt.Errorf("delete user %d: %w", userID, err), "user_id", userID)
	}
	if !removed {
		return s.fail(ctx, OpDeleteAccount, types.ErrUnknownUser, "user_id", userID)
	}

	s.log.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

// ClearUsers removes every user and every favorite.
func (s *Service) ClearUsers(ctx context.Context) error {
	if err := s.store.ClearUsers(ctx); err != nil {
		return s.fail(ctx, OpClearUsers, fmt.Errorf("clear users: %w", err))
	}
	s.log.InfoContext(ctx, "users cleared")
	return nil
}
