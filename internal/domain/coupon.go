package domain

import "time"

// CouponTypePercent is the only discount type the recovery pipeline issues.
const CouponTypePercent = "percent"

type Coupon struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	Value     int       `json:"value"`
	MaxUses   int       `json:"maxUses"`
	UsedCount int       `json:"usedCount"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Usable reports whether the coupon can still be redeemed at the given time.
func (c Coupon) Usable(now time.Time) bool {
	return now.Before(c.ExpiresAt) && c.UsedCount < c.MaxUses
}
