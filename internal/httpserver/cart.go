package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"essenza-backend/internal/domain"
)

// getCartHandler restores a shopper's cart by session id, lines included.
func getCartHandler(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session")

		cart, err := carts.GetBySession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}

		lines, err := carts.ItemsBySession(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}

		cart.Items = make([]domain.CartItem, 0, len(lines))
		for _, line := range lines {
			cart.Items = append(cart.Items, line.Item)
		}
		c.JSON(http.StatusOK, cart)
	}
}
