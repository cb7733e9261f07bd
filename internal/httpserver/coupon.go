package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"essenza-backend/internal/domain"
)

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

type couponResponse struct {
	Valid     bool      `json:"valid"`
	Code      string    `json:"code"`
	Type      string    `json:"type,omitempty"`
	Value     int       `json:"value,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

func validateCouponHandler(coupons CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
			return
		}
		code := strings.ToUpper(strings.TrimSpace(req.Code))

		coupon, err := coupons.GetByCode(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusOK, couponResponse{Valid: false, Code: code, Reason: "not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "coupon lookup failed"})
			return
		}

		resp := couponResponse{
			Code:      coupon.Code,
			Type:      coupon.Type,
			Value:     coupon.Value,
			ExpiresAt: coupon.ExpiresAt,
		}
		switch {
		case coupon.Usable(time.Now()):
			resp.Valid = true
		case coupon.UsedCount >= coupon.MaxUses:
			resp.Reason = "exhausted"
		default:
			resp.Reason = "expired"
		}
		c.JSON(http.StatusOK, resp)
	}
}

func redeemCouponHandler(coupons CouponStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
			return
		}
		code := strings.ToUpper(strings.TrimSpace(req.Code))

		coupon, err := coupons.Redeem(c.Request.Context(), code, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			case errors.Is(err, domain.ErrCouponExpired):
				c.JSON(http.StatusGone, gin.H{"error": "coupon expired"})
			case errors.Is(err, domain.ErrCouponExhausted):
				c.JSON(http.StatusConflict, gin.H{"error": "coupon already used"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redeem failed"})
			}
			return
		}

		c.JSON(http.StatusOK, coupon)
	}
}
