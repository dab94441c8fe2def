package model

import (
	"time"

	"github.com/goccy/go-json"
)

// ObtainedAtLayout always keeps three fraction digits, e.g.
// 2025-05-01T10:00:00.000Z.
const ObtainedAtLayout = "2006-01-02T15:04:05.000Z07:00"

type CouponType string

const (
	CouponTypeDiscount CouponType = "discount"
	CouponTypeUpgrade  CouponType = "upgrade"
	CouponTypeTicket   CouponType = "ticket"
)

type CouponTemplate struct {
	ID          int
	Name        string
	Description string
	Type        CouponType
}

// OwnedCoupon is a template stamped at acquisition. ID replaces the
// template's id with the acquisition time in Unix milliseconds.
type OwnedCoupon struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        CouponType `json:"type"`
	ObtainedAt  time.Time  `json:"obtainedAt"`
}

func (c OwnedCoupon) MarshalJSON() ([]byte, error) {
	type plain OwnedCoupon
	return json.Marshal(struct {
		plain
		ObtainedAt string `json:"obtainedAt"`
	}{
		plain:      plain(c),
		ObtainedAt: c.ObtainedAt.UTC().Format(ObtainedAtLayout),
	})
}

type CouponView struct {
	OwnedCoupon
	ExpiresAt  time.Time
	ObtainedOn string
	ExpiresOn  string
}

type Wallet struct {
	Available []CouponView
	Used      []CouponView
	Expired   []CouponView
}
