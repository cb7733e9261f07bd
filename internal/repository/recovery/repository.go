package recovery

import (
	"context"
	"time"

	"essenza-backend/internal/domain"
)

type Repository interface {
	// DetectAbandoned calls the database-side detector. Rows come back
	// ordered by priority, highest first.
	DetectAbandoned(ctx context.Context, threshold time.Duration) ([]domain.AbandonedCart, error)
	// RecordAttempt claims the (cart session, day) slot for this run.
	// It returns false without error when the slot was already claimed,
	// which is the dedup guard against double outreach.
	RecordAttempt(ctx context.Context, attempt domain.RecoveryAttempt) (bool, error)
	// AttemptsBySession lists the audit trail for one cart session.
	AttemptsBySession(ctx context.Context, sessionID string) ([]domain.RecoveryAttempt, error)
}
