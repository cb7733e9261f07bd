package perfume

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"essenza-backend/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *logrus.Logger) Repository {
	if logger == nil {
		logger = logrus.New()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const perfumeColumns = `id::text, slug, name, brand, COALESCE(notes, ''), price_full_cents, price_5ml_cents, price_10ml_cents, active, created_at`

func scanPerfume(row pgx.Row) (*domain.Perfume, error) {
	var p domain.Perfume
	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Brand,
		&p.Notes,
		&p.PriceFullCents,
		&p.Price5mlCents,
		&p.Price10mlCents,
		&p.Active,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Perfume, error) {
	q := fmt.Sprintf(`SELECT %s FROM perfumes WHERE active ORDER BY created_at DESC`, perfumeColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.WithError(err).Error("perfume repo: list")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Perfume
	for rows.Next() {
		p, err := scanPerfume(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("perfume repo: list rows")
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Perfume, error) {
	q := fmt.Sprintf(`SELECT %s FROM perfumes WHERE id = $1`, perfumeColumns)
	p, err := scanPerfume(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("id", id).Error("perfume repo: get")
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Search(ctx context.Context, in SearchInput) ([]domain.Perfume, int, error) {
	where := []string{"active"}
	args := []interface{}{}

	if q := strings.TrimSpace(in.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR brand ILIKE $%d OR notes ILIKE $%d)", n, n, n))
	}
	if b := strings.TrimSpace(in.Brand); b != "" {
		args = append(args, "%"+b+"%")
		where = append(where, fmt.Sprintf("brand ILIKE $%d", len(args)))
	}
	if in.MinPriceCents != nil {
		args = append(args, *in.MinPriceCents)
		where = append(where, fmt.Sprintf("price_full_cents >= $%d", len(args)))
	}
	if in.MaxPriceCents != nil {
		args = append(args, *in.MaxPriceCents)
		where = append(where, fmt.Sprintf("price_full_cents <= $%d", len(args)))
	}

	clause := strings.Join(where, " AND ")

	var total int
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM perfumes WHERE %s`, clause)
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		r.logger.WithError(err).Error("perfume repo: search count")
		return nil, 0, err
	}

	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM perfumes WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		perfumeColumns, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.WithError(err).Error("perfume repo: search")
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Perfume
	for rows.Next() {
		p, err := scanPerfume(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Perfume) (*domain.Perfume, error) {
	const q = `
INSERT INTO perfumes (slug, name, brand, notes, price_full_cents, price_5ml_cents, price_10ml_cents, active)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    notes = EXCLUDED.notes,
    price_full_cents = EXCLUDED.price_full_cents,
    price_5ml_cents = EXCLUDED.price_5ml_cents,
    price_10ml_cents = EXCLUDED.price_10ml_cents,
    active = EXCLUDED.active
RETURNING id::text, created_at
`
	res := p
	err := r.pool.QueryRow(ctx, q,
		p.Slug,
		p.Name,
		p.Brand,
		p.Notes,
		p.PriceFullCents,
		p.Price5mlCents,
		p.Price10mlCents,
		p.Active,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.WithError(err).WithField("slug", p.Slug).Error("perfume repo: upsert")
		return nil, err
	}
	return &res, nil
}
