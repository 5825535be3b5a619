package jobs

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"shortlink.backend/pkg/logger"
)

// Job is a unit of background work run on a cron schedule
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron specs. Standard five-field specs and
// descriptors such as "@every 1h" are accepted.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &Scheduler{
		cron: cron.New(cron.WithParser(parser)),
		ctx:  context.Background(),
	}
}

func (s *Scheduler) AddJob(job Job, spec string) error {
	fields := []zap.Field{zap.String("job", job.Name()), zap.String("spec", spec)}
	if _, err := s.cron.AddFunc(spec, s.wrap(job)); err != nil {
		logger.Error(context.Background(), "Failed to schedule job", append(fields, zap.Error(err))...)
		return err
	}
	logger.Info(context.Background(), "Job scheduled", fields...)
	return nil
}

// Start runs scheduled jobs with ctx until Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	if ctx != nil {
		s.ctx = ctx
	}
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// wrap skips a run while the previous one of the same job is still going
func (s *Scheduler) wrap(job Job) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			logger.Info(s.ctx, "Job skipped: still running", zap.String("job", job.Name()))
			return
		}
		defer running.Store(false)

		start := time.Now()
		err := job.Run(s.ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.Error(s.ctx, "Job failed", zap.String("job", job.Name()), zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		logger.Debug(s.ctx, "Job finished", zap.String("job", job.Name()), zap.Duration("duration", elapsed))
	}
}
