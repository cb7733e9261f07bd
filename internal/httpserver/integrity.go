package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"essenza-backend/internal/pricing"
)

// priceIntegrityHandler scans the active catalog for tier-price
// inconsistencies. Read-only; fixing the catalog stays a human decision.
func priceIntegrityHandler(perfumes PerfumeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog, err := perfumes.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog scan failed"})
			return
		}
		c.JSON(http.StatusOK, pricing.CheckCatalog(catalog))
	}
}
