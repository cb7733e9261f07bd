package recovery

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenza-backend/internal/domain"
	"essenza-backend/internal/pricing"
	cartrepo "essenza-backend/internal/repository/cart"
)

func testConfig() Config {
	return Config{
		AbandonAfter:    time.Hour,
		DiscountPercent: 10,
		CouponPrefix:    "VOLTA",
		CouponTTL:       24 * time.Hour,
		Fallbacks:       pricing.Fallbacks{Pct5ml: 10, Pct10ml: 20},
		LowStockRatio:   0.3,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func testLines() []cartrepo.Line {
	full := domain.Perfume{
		ID:             "p1",
		Name:           "Oud Royal",
		Brand:          "Maison Noir",
		PriceFullCents: 50000,
		Price5mlCents:  int64Ptr(6000),
		Price10mlCents: int64Ptr(11000),
	}
	noTier := domain.Perfume{
		ID:             "p2",
		Name:           "Citrus Verde",
		Brand:          "Verde & Co",
		PriceFullCents: 30000,
	}
	return []cartrepo.Line{
		{
			Item:    domain.CartItem{PerfumeID: "p1", PerfumeName: full.Name, Brand: full.Brand, Size: domain.Size5ml, Quantity: 2},
			Perfume: full,
		},
		{
			Item:    domain.CartItem{PerfumeID: "p2", PerfumeName: noTier.Name, Brand: noTier.Brand, Size: domain.Size10ml, Quantity: 1},
			Perfume: noTier,
		},
	}
}

func TestBuildPlan_FirstReminder(t *testing.T) {
	plan, err := BuildPlan(domain.ActionFirstReminder, testLines(), testConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, domain.TemplateFirstReminder, plan.Template)
	assert.False(t, plan.NeedsCoupon)
	// 2 x 6000 (explicit 5ml tier) + 1 x 6000 (20% fallback of 30000)
	assert.Equal(t, int64(18000), plan.SubtotalCents)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, int64(6000), plan.Items[0].UnitPriceCents)
	assert.Equal(t, int64(6000), plan.Items[1].UnitPriceCents)
	assert.Zero(t, plan.SavingsCents)
}

func TestBuildPlan_DiscountOffer(t *testing.T) {
	plan, err := BuildPlan(domain.ActionDiscountOffer, testLines(), testConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, domain.TemplateDiscountOffer, plan.Template)
	assert.True(t, plan.NeedsCoupon)
	assert.Equal(t, 10, plan.DiscountPercent)
	for _, item := range plan.Items {
		assert.Equal(t, item.UnitPriceCents-item.UnitPriceCents/10, item.DiscountedUnitCents)
	}
	assert.Equal(t, int64(16200), plan.DiscountedTotalCents)
	assert.Equal(t, int64(1800), plan.SavingsCents)
}

func TestBuildPlan_FinalReminderLowStockNudge(t *testing.T) {
	cfg := testConfig()

	cfg.LowStockRatio = 1.0
	plan, err := BuildPlan(domain.ActionFinalReminder, testLines(), cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	for _, item := range plan.Items {
		assert.True(t, item.LowStock)
		assert.GreaterOrEqual(t, item.UnitsLeft, 1)
		assert.LessOrEqual(t, item.UnitsLeft, 5)
	}

	cfg.LowStockRatio = 0.0
	plan, err = BuildPlan(domain.ActionFinalReminder, testLines(), cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	for _, item := range plan.Items {
		assert.False(t, item.LowStock)
	}
}

func TestBuildPlan_UnknownAction(t *testing.T) {
	_, err := BuildPlan("win_back", testLines(), testConfig(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestMailData_DiscountFieldsOnlyWithCoupon(t *testing.T) {
	cfg := testConfig()
	rng := rand.New(rand.NewSource(1))

	plain, err := BuildPlan(domain.ActionFirstReminder, testLines(), cfg, rng)
	require.NoError(t, err)
	data := plain.MailData("Ana", nil)
	assert.Equal(t, "Ana", data["customer_name"])
	assert.NotContains(t, data, "discount_code")

	withCoupon, err := BuildPlan(domain.ActionDiscountOffer, testLines(), cfg, rng)
	require.NoError(t, err)
	expires := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	coupon := &domain.Coupon{Code: "VOLTA-AB12CD34", Value: 10, ExpiresAt: expires}
	data = withCoupon.MailData("Ana", coupon)
	assert.Equal(t, "VOLTA-AB12CD34", data["discount_code"])
	assert.Equal(t, 10, data["discount_percent"])
	assert.Equal(t, expires.Format(time.RFC3339), data["discount_expires_at"])
	assert.Equal(t, int64(16200), data["discounted_total_cents"])
}
