package cart

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

func (r *postgresRepo) GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, session_id, user_id::text, state, created_at, updated_at
FROM carts
WHERE session_id = $1
`
	var cart domain.Cart
	var userID *string
	err := r.pool.QueryRow(ctx, q, sessionID).Scan(
		&cart.ID,
		&cart.SessionID,
		&userID,
		&cart.State,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.UserID = userID
	return &cart, nil
}

func (r *postgresRepo) ItemsBySession(ctx context.Context, sessionID string) ([]Line, error) {
	const q = `
SELECT ci.id::text, ci.cart_id::text, ci.perfume_id::text, ci.size_ml, ci.quantity, ci.created_at,
       p.id::text, p.slug, p.name, p.brand, COALESCE(p.notes, ''), p.price_full_cents, p.price_5ml_cents, p.price_10ml_cents, p.active, p.created_at
FROM cart_items ci
JOIN carts c ON c.id = ci.cart_id
JOIN perfumes p ON p.id = ci.perfume_id
WHERE c.session_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		if err := rows.Scan(
			&line.Item.ID,
			&line.Item.CartID,
			&line.Item.PerfumeID,
			&line.Item.Size,
			&line.Item.Quantity,
			&line.Item.CreatedAt,
			&line.Perfume.ID,
			&line.Perfume.Slug,
			&line.Perfume.Name,
			&line.Perfume.Brand,
			&line.Perfume.Notes,
			&line.Perfume.PriceFullCents,
			&line.Perfume.Price5mlCents,
			&line.Perfume.Price10mlCents,
			&line.Perfume.Active,
			&line.Perfume.CreatedAt,
		); err != nil {
			return nil, err
		}
		line.Item.PerfumeName = line.Perfume.Name
		line.Item.Brand = line.Perfume.Brand
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
