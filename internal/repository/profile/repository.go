package profile

import (
	"context"

	"essenza-backend/internal/domain"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, p domain.Profile) error
}
