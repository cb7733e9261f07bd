package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"essenza-backend/internal/domain"
	"essenza-backend/internal/recovery"
	cartrepo "essenza-backend/internal/repository/cart"
	perfumerepo "essenza-backend/internal/repository/perfume"
)

// RecoveryRunner triggers one abandoned-cart recovery cycle.
type RecoveryRunner interface {
	Run(ctx context.Context, runID string) (recovery.Summary, error)
}

// AttemptStore exposes the outreach audit trail for one cart session.
type AttemptStore interface {
	AttemptsBySession(ctx context.Context, sessionID string) ([]domain.RecoveryAttempt, error)
}

// CartStore is the slice of the cart repository the storefront needs to
// restore a shopper's cart.
type CartStore interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	ItemsBySession(ctx context.Context, sessionID string) ([]cartrepo.Line, error)
}

// CouponStore is the slice of the coupon repository the storefront needs.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Redeem(ctx context.Context, code string, now time.Time) (*domain.Coupon, error)
}

// PerfumeStore is the slice of the perfume repository the API needs.
type PerfumeStore interface {
	List(ctx context.Context) ([]domain.Perfume, error)
	GetByID(ctx context.Context, id string) (*domain.Perfume, error)
	Search(ctx context.Context, in perfumerepo.SearchInput) ([]domain.Perfume, int, error)
}

// Deps carries the wired services the router needs.
type Deps struct {
	Recovery    RecoveryRunner
	Attempts    AttemptStore
	Carts       CartStore
	Perfumes    PerfumeStore
	Coupons     CouponStore
	AdminAPIKey string
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/perfumes/search", searchPerfumesHandler(deps.Perfumes))
	router.GET("/perfumes/:id", getPerfumeHandler(deps.Perfumes))
	router.GET("/carts/:session", getCartHandler(deps.Carts))
	router.POST("/coupons/validate", validateCouponHandler(deps.Coupons))
	router.POST("/coupons/redeem", redeemCouponHandler(deps.Coupons))

	internal := router.Group("/internal", adminAuth(deps.AdminAPIKey))
	internal.POST("/recovery/run", runRecoveryHandler(deps.Recovery, logger))
	internal.GET("/recovery/attempts/:session", listAttemptsHandler(deps.Attempts))
	internal.GET("/price-integrity", priceIntegrityHandler(deps.Perfumes))

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
