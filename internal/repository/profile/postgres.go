package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"essenza-backend/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT user_id::text, COALESCE(email, ''), COALESCE(full_name, ''), created_at
FROM profiles
WHERE user_id = $1
`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.UserID, &p.Email, &p.FullName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Profile) error {
	const q = `
INSERT INTO profiles (user_id, email, full_name)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
ON CONFLICT (user_id) DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name
`
	_, err := r.pool.Exec(ctx, q, p.UserID, p.Email, p.FullName)
	return err
}
