package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.Recovery.DiscountPercent)
	assert.Equal(t, 10, cfg.Recovery.Fallback5mlPct)
	assert.Equal(t, 20, cfg.Recovery.Fallback10mlPct)
	assert.Equal(t, 24*time.Hour, cfg.Recovery.CouponTTL)
	assert.Equal(t, "VOLTA", cfg.Recovery.CouponPrefix)
	assert.InDelta(t, 0.3, cfg.Recovery.LowStockRatio, 0.0001)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ESSENZA_HTTP_ADDR", ":9999")
	t.Setenv("ESSENZA_RECOVERY_DISCOUNT_PERCENT", "15")
	t.Setenv("ESSENZA_RECOVERY_COUPON_TTL", "48h")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 15, cfg.Recovery.DiscountPercent)
	assert.Equal(t, 48*time.Hour, cfg.Recovery.CouponTTL)
}

func TestFromEnv_RejectsBadPercent(t *testing.T) {
	t.Setenv("ESSENZA_RECOVERY_DISCOUNT_PERCENT", "250")

	_, err := FromEnv()
	assert.Error(t, err)
}
