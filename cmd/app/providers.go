package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
	"github.com/yanqian/bonsai-care-bot/internal/domain/push"
	"github.com/yanqian/bonsai-care-bot/internal/domain/webhook"
	"github.com/yanqian/bonsai-care-bot/internal/infra/config"
	"github.com/yanqian/bonsai-care-bot/internal/infra/deliverylog"
	"github.com/yanqian/bonsai-care-bot/internal/infra/line"
	"github.com/yanqian/bonsai-care-bot/internal/infra/weather/openmeteo"
	"github.com/yanqian/bonsai-care-bot/internal/infra/weathercache"
)

func provideForecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		MaxAttempts:      cfg.Weather.MaxAttempts,
		RetryDelay:       cfg.Weather.RetryDelay,
		AttemptTimeout:   cfg.Weather.AttemptTimeout,
		ExhaustionPolicy: cfg.Weather.ExhaustionPolicy,
		CacheTTL:         cfg.Weather.CacheTTL,
	}
}

func provideWebhookConfig(cfg *config.Config) webhook.Config {
	cities := make(map[string]webhook.Coordinate, len(cfg.Bot.Cities))
	for name, coord := range cfg.Bot.Cities {
		cities[name] = webhook.Coordinate{Latitude: coord.Latitude, Longitude: coord.Longitude}
	}
	return webhook.Config{
		TriggerKeyword:   cfg.Bot.TriggerKeyword,
		Cities:           cities,
		DefaultLatitude:  cfg.Weather.Latitude,
		DefaultLongitude: cfg.Weather.Longitude,
	}
}

func providePushConfig(cfg *config.Config) push.Config {
	return push.Config{
		RecipientID: cfg.Line.RecipientID,
		Latitude:    cfg.Weather.Latitude,
		Longitude:   cfg.Weather.Longitude,
	}
}

func provideSignatureVerifier(cfg *config.Config) *webhook.SignatureVerifier {
	return webhook.NewSignatureVerifier(cfg.Line.ChannelSecret)
}

func provideLineClient(cfg *config.Config, logger *slog.Logger) *line.Client {
	return line.NewClient(cfg.Line.APIBaseURL, cfg.Line.ChannelAccessToken, logger)
}

func provideOpenMeteoClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timezone)
}

func provideReadingStore(cfg *config.Config, logger *slog.Logger) forecast.Store {
	if cfg.Weather.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return weathercache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return weathercache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("valkey reading cache enabled", "addr", cfg.Weather.Valkey.Addr)
			return weathercache.NewValkeyStore(client, "weather")
		}
	}
	return weathercache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Weather.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Weather.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Weather.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideDeliveryLog(cfg *config.Config, logger *slog.Logger) webhook.DeliveryLog {
	fallback := deliverylog.NewMemory()
	dsn := strings.TrimSpace(cfg.DeliveryLog.DSN)
	if dsn == "" {
		logger.Info("delivery log dsn not set, using memory log")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory log", "error", err)
		return fallback
	}
	if cfg.DeliveryLog.MaxConns > 0 {
		poolConfig.MaxConns = cfg.DeliveryLog.MaxConns
	}
	if cfg.DeliveryLog.MinConns > 0 {
		poolConfig.MinConns = cfg.DeliveryLog.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory log", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory log", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres delivery log enabled")
	return deliverylog.NewPostgres(pool)
}
