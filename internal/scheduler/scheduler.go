// Package scheduler runs the periodic jobs of the service.
package scheduler

import (
	"context"
	"fmt"

	"hr_recruit_backend/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron and logs through zap.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

func New(ctx context.Context) *Scheduler {
	l := cronLogger{log: logger.Log.Sugar().Named("cron")}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		ctx:  ctx,
	}
}

// Add registers job under a cron spec such as "@every 10m". When runNow is
// set the job also runs once right away, without blocking.
func (s *Scheduler) Add(spec, name string, job Job, runNow bool) error {
	run := func() {
		if err := job(s.ctx); err != nil {
			logger.Log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		}
	}
	if _, err := s.cron.AddFunc(spec, run); err != nil {
		return fmt.Errorf("cron.AddFunc %s: %w", name, err)
	}
	logger.Log.Info("scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	if runNow {
		go run()
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
