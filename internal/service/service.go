package service

import (
	"context"
	"errors"
	"time"

	"skyhunt/internal/model"

	"github.com/google/uuid"
)

var (
	ErrBoardNotFound        = errors.New("board not found")
	ErrStarNotFound         = errors.New("star not found")
	ErrRewardNotReady       = errors.New("both stars must be found before claiming")
	ErrRewardAlreadyClaimed = errors.New("reward already claimed")
)

const (
	KeyLoggedIn = "isLoggedIn"
	KeyCoupons  = "myCoupons"

	loggedInValue = "true"
)

type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type SessionServiceI interface {
	Login(ctx context.Context, profileID uuid.UUID, username, password string) (bool, error)
	Logout(ctx context.Context, profileID uuid.UUID) error
	IsLoggedIn(ctx context.Context, profileID uuid.UUID) (bool, error)
}

type CouponServiceI interface {
	Award(ctx context.Context, profileID uuid.UUID, now time.Time) (*model.OwnedCoupon, error)
	List(ctx context.Context, profileID uuid.UUID) ([]model.OwnedCoupon, error)
	Wallet(ctx context.Context, profileID uuid.UUID) (*model.Wallet, error)
}

type CouponAwarder interface {
	Award(ctx context.Context, profileID uuid.UUID, now time.Time) (*model.OwnedCoupon, error)
}

type MinigameServiceI interface {
	NewBoard(profileID uuid.UUID) model.BoardSnapshot
	Board(profileID, boardID uuid.UUID) (model.BoardSnapshot, error)
	FindStar(profileID, boardID uuid.UUID, starID int) (model.BoardSnapshot, bool, error)
	Claim(ctx context.Context, profileID, boardID uuid.UUID) (model.BoardSnapshot, error)
}
