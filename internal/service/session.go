package service

import (
	"context"
	"errors"
	"fmt"

	"skyhunt/internal/repository"

	"github.com/google/uuid"
)

// SessionService owns the isLoggedIn flag. There is no credential check: any
// non-empty username and password pair logs the profile in. The flag is the
// only gate in front of the main and coupon screens and is not a security
// boundary.
type SessionService struct {
	kv KVStore
}

func NewSessionService(kv KVStore) *SessionService {
	return &SessionService{
		kv: kv,
	}
}

// Login reports whether the flag was set. Empty fields leave the store
// untouched.
func (s *SessionService) Login(ctx context.Context, profileID uuid.UUID, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	err := NewProfileStore(s.kv, profileID).Set(ctx, KeyLoggedIn, loggedInValue)
	if err != nil {
		return false, fmt.Errorf("failed to set session flag: %w", err)
	}

	return true, nil
}

func (s *SessionService) Logout(ctx context.Context, profileID uuid.UUID) error {
	err := NewProfileStore(s.kv, profileID).Remove(ctx, KeyLoggedIn)
	if err != nil {
		return fmt.Errorf("failed to clear session flag: %w", err)
	}
	return nil
}

func (s *SessionService) IsLoggedIn(ctx context.Context, profileID uuid.UUID) (bool, error) {
	val, err := NewProfileStore(s.kv, profileID).Get(ctx, KeyLoggedIn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read session flag: %w", err)
	}

	return val == loggedInValue, nil
}
