package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"skyhunt/internal/model"
	"skyhunt/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	NoticeOneFound  = "1/2 찾음"
	NoticeBothFound = "다 찾음"
)

type board struct {
	id        uuid.UUID
	profileID uuid.UUID
	stars     []model.StarMarker
	state     model.BoardState
	reward    *model.OwnedCoupon
	mu        sync.Mutex
}

// nextOnFind is the only transition driven by a star click.
func nextOnFind(s model.BoardState) model.BoardState {
	switch s {
	case model.BoardIdle:
		return model.BoardOneFound
	case model.BoardOneFound:
		return model.BoardBothFound
	default:
		return s
	}
}

// find marks a star found. A star that is already found leaves the board
// unchanged. Caller holds b.mu.
func (b *board) find(starID int) (bool, error) {
	for i := range b.stars {
		if b.stars[i].ID != starID {
			continue
		}
		if b.stars[i].Found {
			return false, nil
		}
		b.stars[i].Found = true
		b.state = nextOnFind(b.state)
		return true, nil
	}
	return false, ErrStarNotFound
}

func (b *board) found() int {
	n := 0
	for _, s := range b.stars {
		if s.Found {
			n++
		}
	}
	return n
}

func (b *board) snapshot() model.BoardSnapshot {
	stars := make([]model.StarMarker, len(b.stars))
	copy(stars, b.stars)

	snap := model.BoardSnapshot{
		ID:        b.id,
		ProfileID: b.profileID,
		Stars:     stars,
		State:     b.state,
		Found:     b.found(),
	}

	switch b.state {
	case model.BoardOneFound:
		snap.Notice = NoticeOneFound
	case model.BoardBothFound, model.BoardClaimed:
		snap.Notice = NoticeBothFound
	}

	if b.reward != nil {
		reward := *b.reward
		snap.Reward = &reward
	}

	return snap
}

// MinigameService keeps one in-memory board per profile. Loading the main
// screen creates a fresh board and drops the previous one, like a page
// reload discarding component state.
type MinigameService struct {
	coupons CouponAwarder
	now     func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	boards   map[uuid.UUID]*board
	boardsMu sync.RWMutex
}

func NewMinigameService(coupons CouponAwarder, rng *rand.Rand) *MinigameService {
	return &MinigameService{
		coupons: coupons,
		now:     time.Now,
		rng:     rng,
		boards:  make(map[uuid.UUID]*board),
	}
}

func (s *MinigameService) NewBoard(profileID uuid.UUID) model.BoardSnapshot {
	s.rngMu.Lock()
	stars := GenerateStars(s.rng)
	s.rngMu.Unlock()

	b := &board{
		id:        uuid.New(),
		profileID: profileID,
		stars:     stars,
		state:     model.BoardIdle,
	}

	s.boardsMu.Lock()
	s.boards[profileID] = b
	s.boardsMu.Unlock()

	return b.snapshot()
}

func (s *MinigameService) lookup(profileID, boardID uuid.UUID) (*board, error) {
	s.boardsMu.RLock()
	b, ok := s.boards[profileID]
	s.boardsMu.RUnlock()

	if !ok || b.id != boardID {
		return nil, ErrBoardNotFound
	}
	return b, nil
}

func (s *MinigameService) Board(profileID, boardID uuid.UUID) (model.BoardSnapshot, error) {
	b, err := s.lookup(profileID, boardID)
	if err != nil {
		return model.BoardSnapshot{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.snapshot(), nil
}

// FindStar reports whether the click changed the board.
func (s *MinigameService) FindStar(profileID, boardID uuid.UUID, starID int) (model.BoardSnapshot, bool, error) {
	b, err := s.lookup(profileID, boardID)
	if err != nil {
		return model.BoardSnapshot{}, false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	changed, err := b.find(starID)
	if err != nil {
		return model.BoardSnapshot{}, false, err
	}

	return b.snapshot(), changed, nil
}

// Claim is the single transition out of BothFound. The board lock is held
// across the award so concurrent claims cannot both append.
func (s *MinigameService) Claim(ctx context.Context, profileID, boardID uuid.UUID) (model.BoardSnapshot, error) {
	b, err := s.lookup(profileID, boardID)
	if err != nil {
		return model.BoardSnapshot{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case model.BoardClaimed:
		return b.snapshot(), ErrRewardAlreadyClaimed
	case model.BoardBothFound:
	default:
		return b.snapshot(), ErrRewardNotReady
	}

	coupon, err := s.coupons.Award(ctx, profileID, s.now())
	if err != nil {
		return model.BoardSnapshot{}, fmt.Errorf("failed to award coupon: %w", err)
	}

	b.reward = coupon
	b.state = model.BoardClaimed

	logger.Logger().Debug("minigame reward claimed",
		zap.String("board_id", boardID.String()),
		zap.String("profile_id", profileID.String()))

	return b.snapshot(), nil
}
