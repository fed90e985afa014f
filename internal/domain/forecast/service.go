package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yanqian/bonsai-care-bot/internal/infra/config"
	"github.com/yanqian/bonsai-care-bot/pkg/metrics"
)

// ErrUnavailable is returned instead of a fallback reading when the
// exhaustion policy is set to "unavailable".
var ErrUnavailable = errors.New("weather data unavailable")

// Service exposes weather readings with retry, caching and fallback applied.
type Service interface {
	Reading(ctx context.Context, lat, lon float64) (Reading, error)
}

// Client performs a single provider fetch. Implementations must honor
// context cancellation.
type Client interface {
	Fetch(ctx context.Context, lat, lon float64) (Reading, error)
}

// Store caches readings between request cycles.
type Store interface {
	Get(ctx context.Context, key string) (Reading, bool, error)
	Save(ctx context.Context, key string, reading Reading, ttl time.Duration) error
}

// Config carries the retry and fallback policy for the forecast domain.
type Config struct {
	MaxAttempts      int
	RetryDelay       time.Duration
	AttemptTimeout   time.Duration
	ExhaustionPolicy string
	CacheTTL         time.Duration
}

type service struct {
	cfg      Config
	client   Client
	store    Store
	counters *metrics.Counters
	logger   *slog.Logger
	sleep    func(time.Duration)
}

// NewService wires up the forecast domain.
func NewService(cfg Config, client Client, store Store, counters *metrics.Counters, logger *slog.Logger) Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &service{
		cfg:      cfg,
		client:   client,
		store:    store,
		counters: counters,
		logger:   logger.With("component", "forecast.service"),
		sleep:    time.Sleep,
	}
}

// Reading fetches a reading for the coordinates, retrying up to the
// configured attempt budget with a fixed inter-attempt delay. Exhaustion
// yields either the documented fallback reading or ErrUnavailable, by policy.
func (s *service) Reading(ctx context.Context, lat, lon float64) (Reading, error) {
	key := cacheKey(lat, lon)
	if s.store != nil && s.cfg.CacheTTL > 0 {
		if cached, ok, err := s.store.Get(ctx, key); err != nil {
			s.logger.Warn("reading cache lookup failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		reading, err := s.fetchOnce(ctx, lat, lon)
		if err == nil {
			if s.store != nil && s.cfg.CacheTTL > 0 {
				if err := s.store.Save(ctx, key, reading, s.cfg.CacheTTL); err != nil {
					s.logger.Warn("reading cache save failed", "error", err)
				}
			}
			return reading, nil
		}
		lastErr = err
		s.logger.Warn("weather fetch failed", "attempt", attempt, "lat", lat, "lon", lon, "error", err)
		if attempt < s.cfg.MaxAttempts {
			s.sleep(s.cfg.RetryDelay)
		}
	}

	if s.cfg.ExhaustionPolicy == config.PolicyUnavailable {
		return Reading{}, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	if s.counters != nil {
		s.counters.WeatherFallback()
	}
	s.logger.Warn("weather provider exhausted, using fallback reading", "lat", lat, "lon", lon, "error", lastErr)
	return FallbackReading(), nil
}

func (s *service) fetchOnce(ctx context.Context, lat, lon float64) (Reading, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()
	return s.client.Fetch(attemptCtx, lat, lon)
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("reading:%.4f:%.4f", lat, lon)
}
