package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenza-backend/internal/domain"
)

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidateCoupon_Valid(t *testing.T) {
	coupons := &stubCoupons{coupon: &domain.Coupon{
		Code:      "VOLTA-AB12CD34",
		Type:      domain.CouponTypePercent,
		Value:     10,
		MaxUses:   1,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	router := newTestRouter(Deps{Coupons: coupons})

	rec := postJSON(router, "/coupons/validate", `{"code":"volta-ab12cd34"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body couponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.Equal(t, 10, body.Value)
}

func TestValidateCoupon_Expired(t *testing.T) {
	coupons := &stubCoupons{coupon: &domain.Coupon{
		Code:      "VOLTA-OLD",
		MaxUses:   1,
		ExpiresAt: time.Now().Add(-time.Hour),
	}}
	router := newTestRouter(Deps{Coupons: coupons})

	rec := postJSON(router, "/coupons/validate", `{"code":"VOLTA-OLD"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body couponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.Equal(t, "expired", body.Reason)
}

func TestValidateCoupon_NotFound(t *testing.T) {
	coupons := &stubCoupons{getErr: domain.ErrNotFound}
	router := newTestRouter(Deps{Coupons: coupons})

	rec := postJSON(router, "/coupons/validate", `{"code":"NOPE"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body couponResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.Equal(t, "not_found", body.Reason)
}

func TestValidateCoupon_MissingCode(t *testing.T) {
	router := newTestRouter(Deps{Coupons: &stubCoupons{}})

	rec := postJSON(router, "/coupons/validate", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRedeemCoupon_Success(t *testing.T) {
	coupons := &stubCoupons{coupon: &domain.Coupon{Code: "VOLTA-AB12CD34", Value: 10, MaxUses: 1, UsedCount: 1}}
	router := newTestRouter(Deps{Coupons: coupons})

	rec := postJSON(router, "/coupons/redeem", `{"code":"VOLTA-AB12CD34"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedeemCoupon_ErrorMapping(t *testing.T) {
	for _, tc := range []struct {
		err  error
		code int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrCouponExpired, http.StatusGone},
		{domain.ErrCouponExhausted, http.StatusConflict},
	} {
		router := newTestRouter(Deps{Coupons: &stubCoupons{redeemErr: tc.err}})
		rec := postJSON(router, "/coupons/redeem", `{"code":"VOLTA-X"}`)
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}
