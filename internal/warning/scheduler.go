package warning

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers a full evaluation pass on a fixed interval, normally
// once a day. Manual passes go through the HTTP surface and call the
// engine directly.
type Scheduler struct {
	engine     *Engine
	logger     *zap.Logger
	interval   time.Duration
	runOnStart bool
}

func NewScheduler(engine *Engine, logger *zap.Logger, interval time.Duration, runOnStart bool) *Scheduler {
	return &Scheduler{
		engine:     engine,
		logger:     logger,
		interval:   interval,
		runOnStart: runOnStart,
	}
}

// Run starts the scheduler loop, blocking until ctx is cancelled. On
// shutdown the current user's evaluation finishes and no further users are
// enqueued.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Warning scheduler started", zap.Duration("interval", s.interval))

	if s.runOnStart {
		s.runPass(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Warning scheduler stopped.")
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	if err := s.engine.EvaluateAll(ctx, time.Now().UTC()); err != nil {
		s.logger.Error("Scheduled evaluation pass failed", zap.Error(err))
	}
}
