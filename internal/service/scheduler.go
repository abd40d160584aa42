package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronParser accepts standard 5-field expressions and descriptors like @daily.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Job is a unit of background work.
type Job func(ctx context.Context)

// Scheduler runs background jobs on cron schedules in the schedule timezone.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler constructs a scheduler evaluating specs in loc. Each run gets
// a context bounded by timeout.
func NewScheduler(loc *time.Location, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds job under name.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("parse schedule for %s: %w", name, err)
	}
	if _, err := s.cron.AddFunc(spec, s.wrap(name, job)); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s.logger.Info("background job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("background jobs still running at shutdown")
	}
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("background job panicked", zap.String("job", name), zap.Any("panic", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		job(ctx)
		s.logger.Debug("background job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	}
}
