package coupon

import (
	"context"
	"errors"
	"time"

	"essenza-backend/internal/domain"
)

// ErrCodeTaken is returned by Insert when the generated code collides with
// an existing coupon. Callers regenerate and retry.
var ErrCodeTaken = errors.New("coupon code taken")

type Repository interface {
	Insert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	// Redeem atomically consumes one use of the coupon. It fails with
	// domain.ErrCouponExpired or domain.ErrCouponExhausted when the code
	// exists but can no longer be used.
	Redeem(ctx context.Context, code string, now time.Time) (*domain.Coupon, error)
}
