package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"essenza-backend/internal/domain"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const couponColumns = `id::text, code, type, value, max_uses, used_count, expires_at, created_at`

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	if err := row.Scan(&c.ID, &c.Code, &c.Type, &c.Value, &c.MaxUses, &c.UsedCount, &c.ExpiresAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Insert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, type, value, max_uses, expires_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + couponColumns
	res, err := scanCoupon(r.pool.QueryRow(ctx, q, c.Code, c.Type, c.Value, c.MaxUses, c.ExpiresAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrCodeTaken
		}
		return nil, err
	}
	return res, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	c, err := scanCoupon(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Redeem(ctx context.Context, code string, now time.Time) (*domain.Coupon, error) {
	const q = `
UPDATE coupons
SET used_count = used_count + 1
WHERE code = $1 AND expires_at > $2 AND used_count < max_uses
RETURNING ` + couponColumns
	c, err := scanCoupon(r.pool.QueryRow(ctx, q, code, now))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Distinguish why the guarded update matched nothing.
	existing, getErr := r.GetByCode(ctx, code)
	if getErr != nil {
		return nil, getErr
	}
	if !now.Before(existing.ExpiresAt) {
		return nil, domain.ErrCouponExpired
	}
	return nil, domain.ErrCouponExhausted
}
