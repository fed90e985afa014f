package push

import (
	"context"
	"log/slog"

	"github.com/yanqian/bonsai-care-bot/internal/domain/advice"
	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
	"github.com/yanqian/bonsai-care-bot/internal/infra/line"
	apperrors "github.com/yanqian/bonsai-care-bot/pkg/errors"
	"github.com/yanqian/bonsai-care-bot/pkg/metrics"
)

// Error codes surfaced to callers via pkg/errors.
const (
	CodeNoRecipient = "no_recipient"
	CodeForecast    = "forecast_unavailable"
	CodeDelivery    = "push_delivery_failed"
)

const broadcastSuffix = "— 09:00 自動播報"

// Service sends the daily proactive care bulletin.
type Service interface {
	Broadcast(ctx context.Context) error
}

// Pusher proactively sends messages to a user or group identifier.
type Pusher interface {
	Push(ctx context.Context, to string, messages []line.Message) error
}

// Config carries the push target and its coordinates.
type Config struct {
	RecipientID string
	Latitude    float64
	Longitude   float64
}

type service struct {
	cfg       Config
	forecasts forecast.Service
	pusher    Pusher
	counters  *metrics.Counters
	logger    *slog.Logger
}

// NewService wires up the push domain.
func NewService(cfg Config, forecasts forecast.Service, pusher Pusher, counters *metrics.Counters, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		forecasts: forecasts,
		pusher:    pusher,
		counters:  counters,
		logger:    logger.With("component", "push.service"),
	}
}

// Broadcast fetches the forecast for the configured coordinates and pushes
// the resulting advice. Failures are silent toward users: the push path
// never substitutes an apology message.
func (s *service) Broadcast(ctx context.Context) error {
	if s.cfg.RecipientID == "" {
		return apperrors.Wrap(CodeNoRecipient, "push recipient not configured", nil)
	}

	reading, err := s.forecasts.Reading(ctx, s.cfg.Latitude, s.cfg.Longitude)
	if err != nil {
		s.counters.PushFailed()
		s.logger.Warn("push skipped, forecast unavailable", "error", err)
		return apperrors.Wrap(CodeForecast, "forecast unavailable", err)
	}

	text := advice.Advise(reading).Text() + "\n" + broadcastSuffix
	if err := s.pusher.Push(ctx, s.cfg.RecipientID, []line.Message{line.TextMessage(text)}); err != nil {
		s.counters.PushFailed()
		s.logger.Warn("push send failed", "error", err)
		return apperrors.Wrap(CodeDelivery, "push send failed", err)
	}
	s.counters.PushSent()
	s.logger.Info("daily bulletin pushed", "recipient", s.cfg.RecipientID)
	return nil
}
