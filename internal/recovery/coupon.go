package recovery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"essenza-backend/internal/domain"
	couponrepo "essenza-backend/internal/repository/coupon"
)

const (
	codeAlphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeSuffixLength = 8
	maxCodeAttempts  = 5
)

// generateCode builds "<PREFIX>-<8 base36 chars>". Collisions are possible,
// the issuer retries on the table's unique constraint.
func generateCode(prefix string, rng Rand) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < codeSuffixLength; i++ {
		b.WriteByte(codeAlphabet[rng.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// issueCoupon creates the single-use percentage coupon for a discount offer.
// On a code collision it regenerates and retries a bounded number of times.
func (s *Service) issueCoupon(ctx context.Context) (*domain.Coupon, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCode(s.cfg.CouponPrefix, s.rng)
		coupon, err := s.coupons.Insert(ctx, domain.Coupon{
			Code:      code,
			Type:      domain.CouponTypePercent,
			Value:     s.cfg.DiscountPercent,
			MaxUses:   1,
			ExpiresAt: s.now().Add(s.cfg.CouponTTL),
		})
		if errors.Is(err, couponrepo.ErrCodeTaken) {
			s.logger.WithField("code", code).Warn("coupon code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}
		return coupon, nil
	}
	return nil, fmt.Errorf("coupon code collisions exhausted %d attempts", maxCodeAttempts)
}
