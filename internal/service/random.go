package service

import (
	"math/rand"
	"time"

	"skyhunt/internal/model"

	"github.com/mroth/weightedrand/v2"
)

const (
	StarCount = 2

	starTopMin   = 20.0
	starTopSpan  = 60.0
	starLeftMin  = 10.0
	starLeftSpan = 80.0
)

// GenerateStars places StarCount markers independently: top in [20, 80] and
// left in [10, 90] percent of the viewport. Markers may overlap.
func GenerateStars(rng *rand.Rand) []model.StarMarker {
	stars := make([]model.StarMarker, StarCount)
	for i := range stars {
		stars[i] = model.StarMarker{
			ID:   i + 1,
			Top:  rng.Float64()*starTopSpan + starTopMin,
			Left: rng.Float64()*starLeftSpan + starLeftMin,
		}
	}
	return stars
}

type CouponPicker struct {
	chooser *weightedrand.Chooser[model.CouponTemplate, int]
}

// NewCouponPicker gives every template the same weight, so picks are
// uniform over the catalog.
func NewCouponPicker(catalog []model.CouponTemplate) (*CouponPicker, error) {
	choices := make([]weightedrand.Choice[model.CouponTemplate, int], 0, len(catalog))
	for _, t := range catalog {
		choices = append(choices, weightedrand.NewChoice(t, 1))
	}

	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &CouponPicker{chooser: chooser}, nil
}

func (p *CouponPicker) Pick(rng *rand.Rand) model.CouponTemplate {
	return p.chooser.PickSource(rng)
}

// NewOwnedCoupon stamps a template with its acquisition time. The template
// id is replaced by the acquisition time in Unix milliseconds.
func NewOwnedCoupon(t model.CouponTemplate, now time.Time) model.OwnedCoupon {
	obtainedAt := now.UTC().Truncate(time.Millisecond)
	return model.OwnedCoupon{
		ID:          obtainedAt.UnixMilli(),
		Name:        t.Name,
		Description: t.Description,
		Type:        t.Type,
		ObtainedAt:  obtainedAt,
	}
}
