package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"essenza-backend/internal/domain"
)

// Fallbacks holds the percentage of the full-bottle price charged for a
// decant tier when the catalog has no explicit price for it. These ratios
// are business configuration, not derived values.
type Fallbacks struct {
	Pct5ml  int
	Pct10ml int
}

// PercentOf returns pct% of cents, rounded to whole cents.
func PercentOf(cents int64, pct int) int64 {
	return decimal.NewFromInt(cents).
		Mul(decimal.NewFromInt(int64(pct))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// ResolveUnitPrice returns the unit price for one bottle size of a perfume,
// falling back to a configured fraction of the full price when the tier has
// no price of its own.
func ResolveUnitPrice(p domain.Perfume, size domain.BottleSize, fb Fallbacks) (int64, error) {
	switch size {
	case domain.SizeFull:
		return p.PriceFullCents, nil
	case domain.Size5ml:
		if p.Price5mlCents != nil {
			return *p.Price5mlCents, nil
		}
		return PercentOf(p.PriceFullCents, fb.Pct5ml), nil
	case domain.Size10ml:
		if p.Price10mlCents != nil {
			return *p.Price10mlCents, nil
		}
		return PercentOf(p.PriceFullCents, fb.Pct10ml), nil
	default:
		return 0, fmt.Errorf("unknown bottle size %q", size)
	}
}

// Discounted returns the price after taking pct% off, and the amount saved.
func Discounted(cents int64, pct int) (discounted, saved int64) {
	saved = PercentOf(cents, pct)
	return cents - saved, saved
}
