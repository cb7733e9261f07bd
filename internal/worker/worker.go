// Package worker runs the recovery pipeline off a Redis-backed task queue,
// so runs happen on a schedule instead of waiting for an HTTP caller.
package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"essenza-backend/internal/recovery"
)

const (
	// TaskRecoveryRun is the task type for one full recovery cycle.
	TaskRecoveryRun = "recovery:run"
	// QueueRecovery is the asynq queue the pipeline consumes.
	QueueRecovery = "recovery"
)

// Runner triggers one abandoned-cart recovery cycle.
type Runner interface {
	Run(ctx context.Context, runID string) (recovery.Summary, error)
}

// NewRecoveryTask builds the enqueueable task. MaxRetry is zero: a failed
// run waits for the next scheduled cycle rather than retrying, the pipeline
// is best-effort outreach.
func NewRecoveryTask() *asynq.Task {
	return asynq.NewTask(TaskRecoveryRun, nil, asynq.Queue(QueueRecovery), asynq.MaxRetry(0))
}

// Handler processes recovery tasks.
type Handler struct {
	runner Runner
	logger *logrus.Logger
}

func NewHandler(runner Runner, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{runner: runner, logger: logger}
}

// HandleRecoveryRun executes one cycle. Only a detection failure errors the
// task; per-cart failures are already absorbed into the run summary.
func (h *Handler) HandleRecoveryRun(ctx context.Context, _ *asynq.Task) error {
	runID := uuid.NewString()
	log := h.logger.WithField("run_id", runID)

	summary, err := h.runner.Run(ctx, runID)
	if err != nil {
		log.WithError(err).Error("scheduled recovery run failed")
		return err
	}

	log.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"sent":      summary.EmailsSent,
		"errors":    summary.Errors,
	}).Info("scheduled recovery run finished")
	return nil
}

// NewMux wires the task handlers.
func NewMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRecoveryRun, h.HandleRecoveryRun)
	return mux
}

// NewServer builds the queue consumer.
func NewServer(redisAddr string, concurrency int) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 1
	}
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues:      map[string]int{QueueRecovery: 1},
		},
	)
}

// NewScheduler enqueues a recovery run on the configured cron spec.
func NewScheduler(redisAddr, cronSpec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: redisAddr}, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(cronSpec, NewRecoveryTask()); err != nil {
		return nil, err
	}
	return scheduler, nil
}
