package perfume

import (
	"context"

	"essenza-backend/internal/domain"
)

// SearchInput carries the storefront search filters. Query matches name,
// brand and notes with ILIKE; price bounds apply to the full-bottle price.
type SearchInput struct {
	Query         string
	Brand         string
	MinPriceCents *int64
	MaxPriceCents *int64
	Limit         int
	Offset        int
}

type Repository interface {
	List(ctx context.Context) ([]domain.Perfume, error)
	GetByID(ctx context.Context, id string) (*domain.Perfume, error)
	Search(ctx context.Context, in SearchInput) ([]domain.Perfume, int, error)
	Upsert(ctx context.Context, p domain.Perfume) (*domain.Perfume, error)
}
