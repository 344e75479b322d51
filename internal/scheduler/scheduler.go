package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// retryBackoff is how long a failed job waits before its single retry.
// Supervision lives here, outside the sync engine: the engine itself never
// retries anything.
const retryBackoff = 5 * time.Minute

// Scheduler runs the periodic jobs: the full reconciliation pass and the
// media bucket purge.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New creates an empty scheduler
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// AddJob registers a cron-expression-driven job. A failed run is retried
// once after a backoff; a failed retry waits for the next scheduled tick.
func (s *Scheduler) AddJob(name, expr string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(expr, func() {
		s.logger.Info("Job starting", zap.String("job", name))
		if err := fn(context.Background()); err != nil {
			s.logger.Error("Job failed, retrying after backoff",
				zap.String("job", name),
				zap.Duration("backoff", retryBackoff),
				zap.Error(err),
			)
			time.AfterFunc(retryBackoff, func() {
				if err := fn(context.Background()); err != nil {
					s.logger.Error("Job retry failed", zap.String("job", name), zap.Error(err))
					return
				}
				s.logger.Info("Job retry succeeded", zap.String("job", name))
			})
			return
		}
		s.logger.Info("Job finished", zap.String("job", name))
	})
	return err
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
