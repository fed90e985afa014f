package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"

	"github.com/yanqian/bonsai-care-bot/internal/domain/push"
	"github.com/yanqian/bonsai-care-bot/internal/infra/config"
)

// PushScheduler fires the daily bulletin on a cron schedule, evaluated in
// the configured weather timezone. Deployments that use an external cron
// hitting /push keep it disabled.
type PushScheduler struct {
	cfg      config.PushConfig
	svc      push.Service
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// New constructs the scheduler. An unknown timezone falls back to UTC.
func New(cfg *config.Config, svc push.Service, logger *slog.Logger) *PushScheduler {
	loc, err := time.LoadLocation(cfg.Weather.Timezone)
	if err != nil {
		logger.Warn("unknown timezone for scheduler, using UTC", "timezone", cfg.Weather.Timezone, "error", err)
		loc = time.UTC
	}
	return &PushScheduler{
		cfg:      cfg.Push,
		svc:      svc,
		location: loc,
		logger:   logger.With("component", "scheduler.push"),
		now:      time.Now,
	}
}

// Run blocks until the context is canceled, broadcasting at every schedule
// tick. A failed broadcast is logged and the loop keeps going.
func (s *PushScheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("push scheduler disabled")
		return
	}
	s.logger.Info("push scheduler started", "schedule", s.cfg.Schedule)

	for {
		next, err := gronx.NextTickAfter(s.cfg.Schedule, s.now().In(s.location), false)
		if err != nil {
			s.logger.Error("invalid push schedule, scheduler stopped", "schedule", s.cfg.Schedule, "error", err)
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("push scheduler stopped")
			return
		case <-timer.C:
		}

		if err := s.svc.Broadcast(ctx); err != nil {
			s.logger.Warn("scheduled broadcast failed", "error", err)
		}
	}
}
