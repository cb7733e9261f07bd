package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCouponExpired indicates the coupon exists but is past its expiry.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrCouponExhausted indicates the coupon has no remaining uses.
	ErrCouponExhausted = errors.New("coupon exhausted")
)
