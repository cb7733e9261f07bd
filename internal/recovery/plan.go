package recovery

import (
	"errors"
	"time"

	"essenza-backend/internal/domain"
	"essenza-backend/internal/pricing"
	cartrepo "essenza-backend/internal/repository/cart"
)

// ErrUnknownAction marks a detector recommendation this pipeline does not
// understand. Such carts are skipped, not failed.
var ErrUnknownAction = errors.New("unknown recovery action")

// Rand is the randomness the planner draws from. *rand.Rand satisfies it;
// the service wraps one in a mutex because runs may fire concurrently.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Config holds the pipeline tunables. All of it comes from configuration;
// none of the ratios are derived from data.
type Config struct {
	AbandonAfter    time.Duration
	DiscountPercent int
	CouponPrefix    string
	CouponTTL       time.Duration
	Fallbacks       pricing.Fallbacks
	LowStockRatio   float64
}

// PlanItem is one cart line prepared for the outreach email.
type PlanItem struct {
	PerfumeName         string
	Brand               string
	Size                domain.BottleSize
	Quantity            int
	UnitPriceCents      int64
	TotalCents          int64
	DiscountedUnitCents int64
	LowStock            bool
	UnitsLeft           int
}

// Plan is the decision for one abandoned cart: which template to send and
// the computed payload. Building it has no side effects.
type Plan struct {
	Action               domain.RecoveryAction
	Template             domain.MailTemplate
	Items                []PlanItem
	SubtotalCents        int64
	NeedsCoupon          bool
	DiscountPercent      int
	DiscountedTotalCents int64
	SavingsCents         int64
}

// BuildPlan turns detector output plus the cart's current lines into an
// outreach plan. The rng drives the final-reminder low-stock nudge, which is
// presentation noise rather than inventory data.
func BuildPlan(action domain.RecoveryAction, lines []cartrepo.Line, cfg Config, rng Rand) (*Plan, error) {
	plan := &Plan{Action: action}

	switch action {
	case domain.ActionFirstReminder:
		plan.Template = domain.TemplateFirstReminder
	case domain.ActionDiscountOffer:
		plan.Template = domain.TemplateDiscountOffer
		plan.NeedsCoupon = true
		plan.DiscountPercent = cfg.DiscountPercent
	case domain.ActionFinalReminder:
		plan.Template = domain.TemplateFinalReminder
	default:
		return nil, ErrUnknownAction
	}

	for _, line := range lines {
		unit, err := pricing.ResolveUnitPrice(line.Perfume, line.Item.Size, cfg.Fallbacks)
		if err != nil {
			return nil, err
		}
		item := PlanItem{
			PerfumeName:    line.Item.PerfumeName,
			Brand:          line.Item.Brand,
			Size:           line.Item.Size,
			Quantity:       line.Item.Quantity,
			UnitPriceCents: unit,
			TotalCents:     unit * int64(line.Item.Quantity),
		}

		if plan.NeedsCoupon {
			item.DiscountedUnitCents, _ = pricing.Discounted(unit, cfg.DiscountPercent)
		}
		if action == domain.ActionFinalReminder && rng.Float64() < cfg.LowStockRatio {
			item.LowStock = true
			item.UnitsLeft = 1 + rng.Intn(5)
		}

		plan.Items = append(plan.Items, item)
		plan.SubtotalCents += item.TotalCents
	}

	if plan.NeedsCoupon {
		plan.DiscountedTotalCents, plan.SavingsCents = pricing.Discounted(plan.SubtotalCents, cfg.DiscountPercent)
	}
	return plan, nil
}

// MailData renders the plan into the template payload sent to the mail
// function. Discount fields appear only when a coupon was issued.
func (p *Plan) MailData(customerName string, coupon *domain.Coupon) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(p.Items))
	for _, it := range p.Items {
		entry := map[string]interface{}{
			"name":             it.PerfumeName,
			"brand":            it.Brand,
			"size":             string(it.Size),
			"quantity":         it.Quantity,
			"unit_price_cents": it.UnitPriceCents,
			"total_cents":      it.TotalCents,
		}
		if p.NeedsCoupon {
			entry["discounted_unit_price_cents"] = it.DiscountedUnitCents
		}
		if it.LowStock {
			entry["low_stock"] = true
			entry["units_left"] = it.UnitsLeft
		}
		items = append(items, entry)
	}

	data := map[string]interface{}{
		"customer_name":  customerName,
		"items":          items,
		"subtotal_cents": p.SubtotalCents,
	}
	if coupon != nil {
		data["discount_code"] = coupon.Code
		data["discount_percent"] = coupon.Value
		data["discount_expires_at"] = coupon.ExpiresAt.Format(time.RFC3339)
		data["discounted_total_cents"] = p.DiscountedTotalCents
		data["savings_cents"] = p.SavingsCents
	}
	return data
}
