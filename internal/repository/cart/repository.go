package cart

import (
	"context"

	"essenza-backend/internal/domain"
)

// Line pairs a cart item with the perfume it points at, so callers can
// resolve the tier price without a second round trip.
type Line struct {
	Item    domain.CartItem
	Perfume domain.Perfume
}

type Repository interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	ItemsBySession(ctx context.Context, sessionID string) ([]Line, error)
}
