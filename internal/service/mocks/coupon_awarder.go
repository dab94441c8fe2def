package mocks

import (
	"context"
	"time"

	"skyhunt/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCouponAwarder struct {
	mock.Mock
}

func (m *MockCouponAwarder) Award(ctx context.Context, profileID uuid.UUID, now time.Time) (*model.OwnedCoupon, error) {
	args := m.Called(ctx, profileID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OwnedCoupon), args.Error(1)
}
