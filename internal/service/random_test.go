package service

import (
	"math/rand"
	"testing"
	"time"

	"skyhunt/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStars_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		stars := GenerateStars(rng)
		require.Len(t, stars, StarCount)

		for j, s := range stars {
			assert.Equal(t, j+1, s.ID)
			assert.False(t, s.Found)
			assert.GreaterOrEqual(t, s.Top, 20.0)
			assert.LessOrEqual(t, s.Top, 80.0)
			assert.GreaterOrEqual(t, s.Left, 10.0)
			assert.LessOrEqual(t, s.Left, 90.0)
		}
	}
}

func TestGenerateStars_Deterministic(t *testing.T) {
	a := GenerateStars(rand.New(rand.NewSource(7)))
	b := GenerateStars(rand.New(rand.NewSource(7)))

	assert.Equal(t, a, b)
}

func TestCouponPicker_CoversCatalog(t *testing.T) {
	picker, err := NewCouponPicker(Catalog)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	seen := make(map[int]int)
	for i := 0; i < 3000; i++ {
		tmpl := picker.Pick(rng)
		assert.Contains(t, Catalog, tmpl)
		seen[tmpl.ID]++
	}

	require.Len(t, seen, len(Catalog))
	for id, n := range seen {
		// uniform over three: expect ~1000 each
		assert.InDelta(t, 1000, n, 200, "template %d", id)
	}
}

func TestNewCouponPicker_EmptyCatalog(t *testing.T) {
	_, err := NewCouponPicker(nil)
	assert.Error(t, err)
}

func TestNewOwnedCoupon(t *testing.T) {
	now := time.Date(2025, 3, 7, 9, 30, 15, 123456789, time.FixedZone("KST", 9*60*60))

	coupon := NewOwnedCoupon(Catalog[1], now)

	assert.Equal(t, now.UnixMilli(), coupon.ID)
	assert.NotEqual(t, int64(Catalog[1].ID), coupon.ID)
	assert.Equal(t, Catalog[1].Name, coupon.Name)
	assert.Equal(t, Catalog[1].Description, coupon.Description)
	assert.Equal(t, model.CouponTypeUpgrade, coupon.Type)
	assert.True(t, coupon.ObtainedAt.Equal(now.Truncate(time.Millisecond)))
	assert.Equal(t, time.UTC, coupon.ObtainedAt.Location())
}
