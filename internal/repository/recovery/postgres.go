package recovery

import (
	"context"
	"errors"
	"time"

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

func (r *postgresRepo) DetectAbandoned(ctx context.Context, threshold time.Duration) ([]domain.AbandonedCart, error) {
	const q = `SELECT cart_session_id, user_id::text, priority_score, recommended_action FROM detect_abandoned_carts($1)`
	rows, err := r.pool.Query(ctx, q, threshold)
	if err != nil {
		r.logger.WithError(err).Error("recovery repo: detect abandoned carts")
		return nil, err
	}
	defer rows.Close()

	var carts []domain.AbandonedCart
	for rows.Next() {
		var c domain.AbandonedCart
		if err := rows.Scan(&c.CartSessionID, &c.UserID, &c.PriorityScore, &c.RecommendedAction); err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.WithError(err).Error("recovery repo: detect rows")
		return nil, err
	}
	return carts, nil
}

func (r *postgresRepo) RecordAttempt(ctx context.Context, attempt domain.RecoveryAttempt) (bool, error) {
	const q = `
INSERT INTO recovery_attempts (cart_session_id, recovery_type, discount_offered, discount_code)
VALUES ($1, $2, $3, NULLIF($4, ''))
ON CONFLICT (cart_session_id, attempt_date) DO NOTHING
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q,
		attempt.CartSessionID,
		attempt.RecoveryType,
		attempt.DiscountOffered,
		attempt.DiscountCode,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// slot already claimed today
			return false, nil
		}
		r.logger.WithError(err).WithField("session", attempt.CartSessionID).Error("recovery repo: record attempt")
		return false, err
	}
	return true, nil
}

func (r *postgresRepo) AttemptsBySession(ctx context.Context, sessionID string) ([]domain.RecoveryAttempt, error) {
	const q = `
SELECT id::text, cart_session_id, recovery_type, discount_offered, COALESCE(discount_code, ''), created_at
FROM recovery_attempts
WHERE cart_session_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []domain.RecoveryAttempt
	for rows.Next() {
		var a domain.RecoveryAttempt
		if err := rows.Scan(&a.ID, &a.CartSessionID, &a.RecoveryType, &a.DiscountOffered, &a.DiscountCode, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}
