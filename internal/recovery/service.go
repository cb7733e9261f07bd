// Package recovery implements the abandoned-cart outreach pipeline: a pure
// planner deciding what to send, wrapped in a service that does the fetching,
// coupon issuing, attempt recording and mailing.
package recovery

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"essenza-backend/internal/domain"
	"essenza-backend/internal/mailer"
	cartrepo "essenza-backend/internal/repository/cart"
)

type cartRepo interface {
	ItemsBySession(ctx context.Context, sessionID string) ([]cartrepo.Line, error)
}

type profileRepo interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

type couponRepo interface {
	Insert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
}

type detectorRepo interface {
	DetectAbandoned(ctx context.Context, threshold time.Duration) ([]domain.AbandonedCart, error)
	RecordAttempt(ctx context.Context, attempt domain.RecoveryAttempt) (bool, error)
}

// Summary is the per-run result returned to callers. The counters keep the
// invariant EmailsSent + Errors == Processed; skips are tracked separately.
type Summary struct {
	Success    bool `json:"success"`
	Processed  int  `json:"processed"`
	Skipped    int  `json:"skipped"`
	EmailsSent int  `json:"emailsSent"`
	Errors     int  `json:"errors"`
}

type Service struct {
	carts    cartRepo
	profiles profileRepo
	coupons  couponRepo
	detector detectorRepo
	mail     mailer.Sender
	cfg      Config
	logger   *logrus.Logger
	now      func() time.Time
	rng      Rand
}

// lockedRand serializes draws from a rand.Rand. Concurrent runs (parallel
// HTTP triggers, worker concurrency above one) share the service instance,
// and a bare *rand.Rand is not safe for that.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func New(carts cartRepo, profiles profileRepo, coupons couponRepo, detector detectorRepo, mail mailer.Sender, cfg Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		carts:    carts,
		profiles: profiles,
		coupons:  coupons,
		detector: detector,
		mail:     mail,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		rng:      &lockedRand{rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
	}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeSent
	outcomeFailed
)

// Run executes one detection cycle. Detection failure aborts the run; any
// single cart's failure is counted and the loop continues. Carts are handled
// sequentially in detector priority order.
func (s *Service) Run(ctx context.Context, runID string) (Summary, error) {
	log := s.logger.WithField("run_id", runID)

	carts, err := s.detector.DetectAbandoned(ctx, s.cfg.AbandonAfter)
	if err != nil {
		return Summary{}, err
	}
	log.WithField("detected", len(carts)).Info("abandoned cart detection complete")

	var summary Summary
	summary.Success = true
	for _, cart := range carts {
		switch s.processCart(ctx, cart, log) {
		case outcomeSent:
			summary.Processed++
			summary.EmailsSent++
		case outcomeFailed:
			summary.Processed++
			summary.Errors++
		case outcomeSkipped:
			summary.Skipped++
		}
	}

	log.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"sent":      summary.EmailsSent,
		"errors":    summary.Errors,
	}).Info("recovery run finished")
	return summary, nil
}

func (s *Service) processCart(ctx context.Context, cart domain.AbandonedCart, log *logrus.Entry) outcome {
	log = log.WithField("session", cart.CartSessionID)

	lines, err := s.carts.ItemsBySession(ctx, cart.CartSessionID)
	if err != nil {
		log.WithError(err).Error("fetch cart items")
		return outcomeFailed
	}
	if len(lines) == 0 {
		// cart was cleared between detection and processing
		log.Debug("cart empty, skipping")
		return outcomeSkipped
	}

	profile, err := s.profiles.GetByUserID(ctx, cart.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug("no profile, skipping")
			return outcomeSkipped
		}
		log.WithError(err).Error("fetch profile")
		return outcomeFailed
	}
	if profile.Email == "" {
		// no contact channel
		return outcomeSkipped
	}

	plan, err := BuildPlan(cart.RecommendedAction, lines, s.cfg, s.rng)
	if err != nil {
		if errors.Is(err, ErrUnknownAction) {
			log.WithField("action", cart.RecommendedAction).Warn("unrecognized action, skipping")
			return outcomeSkipped
		}
		log.WithError(err).Error("build outreach plan")
		return outcomeFailed
	}

	var coupon *domain.Coupon
	if plan.NeedsCoupon {
		coupon, err = s.issueCoupon(ctx)
		if err != nil {
			log.WithError(err).Error("issue discount coupon")
			return outcomeFailed
		}
	}

	attempt := domain.RecoveryAttempt{
		CartSessionID:   cart.CartSessionID,
		RecoveryType:    string(plan.Action),
		DiscountOffered: coupon != nil,
	}
	if coupon != nil {
		attempt.DiscountCode = coupon.Code
	}
	claimed, err := s.detector.RecordAttempt(ctx, attempt)
	if err != nil {
		log.WithError(err).Error("record recovery attempt")
		return outcomeFailed
	}
	if !claimed {
		log.Info("attempt already recorded today, skipping outreach")
		return outcomeSkipped
	}

	msg := mailer.Message{
		To:       profile.Email,
		Template: plan.Template,
		Data:     plan.MailData(profile.FullName, coupon),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		log.WithError(err).Error("send outreach email")
		return outcomeFailed
	}

	log.WithFields(logrus.Fields{"template": plan.Template, "priority": cart.PriorityScore}).Info("outreach sent")
	return outcomeSent
}
