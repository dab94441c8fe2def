package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"skyhunt/internal/model"
	"skyhunt/internal/repository"
	"skyhunt/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultValidityDays = 30

var Catalog = []model.CouponTemplate{
	{
		ID:          1,
		Name:        "50% 할인 쿠폰",
		Description: "항공료 50% 할인",
		Type:        model.CouponTypeDiscount,
	},
	{
		ID:          2,
		Name:        "좌석 업그레이드",
		Description: "이코노미 → 비즈니스 업그레이드",
		Type:        model.CouponTypeUpgrade,
	},
	{
		ID:          3,
		Name:        "무료 항공 티켓",
		Description: "원하는 여행지, 시간 자유롭게 사용 가능(단, 비성수기만)",
		Type:        model.CouponTypeTicket,
	},
}

type CouponOptions struct {
	ValidityDays int
	Location     *time.Location
}

type CouponService struct {
	kv           KVStore
	picker       *CouponPicker
	validityDays int
	loc          *time.Location

	rngMu sync.Mutex
	rng   *rand.Rand

	// serializes read-modify-write of coupon lists
	appendMu sync.Mutex
}

func NewCouponService(kv KVStore, rng *rand.Rand, opts CouponOptions) (*CouponService, error) {
	picker, err := NewCouponPicker(Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to build coupon picker: %w", err)
	}

	if opts.ValidityDays <= 0 {
		opts.ValidityDays = DefaultValidityDays
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &CouponService{
		kv:           kv,
		picker:       picker,
		validityDays: opts.ValidityDays,
		loc:          opts.Location,
		rng:          rng,
	}, nil
}

// Award draws one template uniformly from the catalog and appends it to the
// profile's coupon list.
func (s *CouponService) Award(ctx context.Context, profileID uuid.UUID, now time.Time) (*model.OwnedCoupon, error) {
	s.rngMu.Lock()
	template := s.picker.Pick(s.rng)
	s.rngMu.Unlock()

	coupon := NewOwnedCoupon(template, now)

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	coupons, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	coupons = append(coupons, coupon)

	data, err := json.Marshal(coupons)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coupons: %w", err)
	}

	if err := NewProfileStore(s.kv, profileID).Set(ctx, KeyCoupons, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save coupons: %w", err)
	}

	logger.Logger().Info("coupon awarded",
		zap.String("profile_id", profileID.String()),
		zap.Int64("coupon_id", coupon.ID),
		zap.String("type", string(coupon.Type)))

	return &coupon, nil
}

// List returns the stored coupons in acquisition order. A missing or
// malformed list reads as empty.
func (s *CouponService) List(ctx context.Context, profileID uuid.UUID) ([]model.OwnedCoupon, error) {
	raw, err := NewProfileStore(s.kv, profileID).Get(ctx, KeyCoupons)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []model.OwnedCoupon{}, nil
		}
		return nil, fmt.Errorf("failed to load coupons: %w", err)
	}

	var coupons []model.OwnedCoupon
	if err := json.Unmarshal([]byte(raw), &coupons); err != nil {
		logger.Logger().Warn("malformed coupon list, treating as empty",
			zap.String("profile_id", profileID.String()),
			zap.Error(err))
		return []model.OwnedCoupon{}, nil
	}
	if coupons == nil {
		coupons = []model.OwnedCoupon{}
	}

	return coupons, nil
}

// Wallet lists every stored coupon as available. Expiry is display-only and
// nothing marks a coupon used, so Used and Expired stay empty.
func (s *CouponService) Wallet(ctx context.Context, profileID uuid.UUID) (*model.Wallet, error) {
	coupons, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}

	wallet := &model.Wallet{
		Available: make([]model.CouponView, 0, len(coupons)),
		Used:      []model.CouponView{},
		Expired:   []model.CouponView{},
	}

	for _, c := range coupons {
		expiresAt := c.ObtainedAt.In(s.loc).AddDate(0, 0, s.validityDays)
		wallet.Available = append(wallet.Available, model.CouponView{
			OwnedCoupon: c,
			ExpiresAt:   expiresAt,
			ObtainedOn:  FormatDate(c.ObtainedAt, s.loc),
			ExpiresOn:   FormatDate(expiresAt, s.loc),
		})
	}

	return wallet, nil
}

func (s *CouponService) ValidityDays() int {
	return s.validityDays
}

// FormatDate renders t as a Korean long-form calendar date, e.g.
// "2025년 3월 7일".
func FormatDate(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}
