package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/bonsai-care-bot/internal/domain/advice"
	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
	"github.com/yanqian/bonsai-care-bot/internal/infra/line"
	"github.com/yanqian/bonsai-care-bot/pkg/metrics"
	"github.com/yanqian/bonsai-care-bot/pkg/util"
)

// Service routes inbound events to replies.
type Service interface {
	HandleEvents(ctx context.Context, events []InboundEvent)
}

// Replier sends reply messages back through the platform.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages []line.Message) error
}

// Coordinate is a latitude/longitude pair for a dispatchable city.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Config carries the routing settings for the webhook domain.
type Config struct {
	TriggerKeyword   string
	Cities           map[string]Coordinate
	DefaultLatitude  float64
	DefaultLongitude float64
}

type service struct {
	cfg       Config
	cityNames []string
	forecasts forecast.Service
	replier   Replier
	log       DeliveryLog
	counters  *metrics.Counters
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the event router.
func NewService(cfg Config, forecasts forecast.Service, replier Replier, log DeliveryLog, counters *metrics.Counters, logger *slog.Logger) Service {
	names := make([]string, 0, len(cfg.Cities))
	for name := range cfg.Cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return &service{
		cfg:       cfg,
		cityNames: names,
		forecasts: forecasts,
		replier:   replier,
		log:       log,
		counters:  counters,
		logger:    logger.With("component", "webhook.service"),
		now:       util.NowUTC,
	}
}

// HandleEvents processes every event of one delivery concurrently. A
// per-event failure is isolated: siblings run to completion regardless.
func (s *service) HandleEvents(ctx context.Context, events []InboundEvent) {
	var wg sync.WaitGroup
	for _, ev := range events {
		wg.Add(1)
		go func(ev InboundEvent) {
			defer wg.Done()
			s.handleEvent(ctx, ev)
		}(ev)
	}
	wg.Wait()
}

func (s *service) handleEvent(ctx context.Context, ev InboundEvent) {
	deliveryID := uuid.NewString()
	logger := s.logger.With("delivery_id", deliveryID)

	if ev.Type != "message" || ev.Message == nil || ev.Message.Type != "text" {
		logger.Debug("ignoring non-text event", "type", ev.Type)
		return
	}
	if IsSyntheticReplyToken(ev.ReplyToken) {
		logger.Info("dropping synthetic reply token")
		s.counters.EventDropped()
		s.record(ctx, logger, deliveryID, ev, "", OutcomeDropped)
		return
	}

	text := strings.TrimSpace(ev.Message.Text)
	command, reply := s.resolveReply(ctx, logger, ev, text)

	if err := s.replier.Reply(ctx, ev.ReplyToken, []line.Message{line.TextMessage(reply)}); err != nil {
		// Best-effort: expired tokens and platform rejections are logged,
		// never retried and never surfaced to the webhook transport.
		logger.Warn("reply send failed", "command", command, "error", err)
		s.counters.ReplyFailed()
		s.record(ctx, logger, deliveryID, ev, command, OutcomeReplyFailed)
		return
	}
	logger.Info("reply sent", "command", command)
	s.counters.ReplySent()
	s.record(ctx, logger, deliveryID, ev, command, OutcomeReplied)
}

func (s *service) resolveReply(ctx context.Context, logger *slog.Logger, ev InboundEvent, text string) (command, reply string) {
	switch {
	case strings.EqualFold(text, "status"):
		return "status", s.statusText(ev)
	case strings.Contains(text, s.cfg.TriggerKeyword):
		return "advice", s.adviceText(ctx, logger, text)
	default:
		return "help", helpText
	}
}

func (s *service) statusText(ev InboundEvent) string {
	userID := "-"
	if ev.Source != nil && ev.Source.UserID != "" {
		userID = ev.Source.UserID
	}
	return fmt.Sprintf("✅ Bot online\nuserId: %s\nLAT:%.2f LON:%.2f", userID, s.cfg.DefaultLatitude, s.cfg.DefaultLongitude)
}

func (s *service) adviceText(ctx context.Context, logger *slog.Logger, text string) string {
	lat, lon, city := s.resolveCoordinates(text)
	reading, err := s.forecasts.Reading(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, forecast.ErrUnavailable) {
			logger.Warn("weather unavailable for advice reply", "city", city)
			return unavailableText
		}
		logger.Error("forecast failed", "city", city, "error", err)
		return unavailableText
	}
	return advice.Advise(reading).Text()
}

func (s *service) resolveCoordinates(text string) (lat, lon float64, city string) {
	for _, name := range s.cityNames {
		if strings.Contains(text, name) {
			coord := s.cfg.Cities[name]
			return coord.Latitude, coord.Longitude, name
		}
	}
	return s.cfg.DefaultLatitude, s.cfg.DefaultLongitude, ""
}

func (s *service) record(ctx context.Context, logger *slog.Logger, deliveryID string, ev InboundEvent, command, outcome string) {
	if s.log == nil {
		return
	}
	record := DeliveryRecord{
		ID:         deliveryID,
		ReceivedAt: s.now(),
		EventType:  ev.Type,
		Command:    command,
		Outcome:    outcome,
	}
	if err := s.log.Record(ctx, record); err != nil {
		logger.Warn("delivery log write failed", "error", err)
	}
}

const helpText = "指令：\n" +
	"status － 檢查連線並顯示你的 userId\n" +
	"真柏 － 取得今日天氣與照護建議（可加城市，如：真柏 台北）"

const unavailableText = "⚠️ 天氣資料暫時無法取得，請稍後再試。"
