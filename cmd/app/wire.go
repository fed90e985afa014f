//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/bonsai-care-bot/internal/bootstrap"
	"github.com/yanqian/bonsai-care-bot/internal/domain/forecast"
	"github.com/yanqian/bonsai-care-bot/internal/domain/push"
	"github.com/yanqian/bonsai-care-bot/internal/domain/webhook"
	"github.com/yanqian/bonsai-care-bot/internal/infra/config"
	"github.com/yanqian/bonsai-care-bot/internal/infra/line"
	"github.com/yanqian/bonsai-care-bot/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/bonsai-care-bot/internal/interface/http"
	"github.com/yanqian/bonsai-care-bot/internal/scheduler"
	"github.com/yanqian/bonsai-care-bot/pkg/logger"
	"github.com/yanqian/bonsai-care-bot/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewCounters,
		provideForecastConfig,
		provideWebhookConfig,
		providePushConfig,
		provideSignatureVerifier,
		provideLineClient,
		provideOpenMeteoClient,
		provideReadingStore,
		provideDeliveryLog,
		forecast.NewService,
		webhook.NewService,
		push.NewService,
		wire.Bind(new(forecast.Client), new(*openmeteo.Client)),
		wire.Bind(new(webhook.Replier), new(*line.Client)),
		wire.Bind(new(push.Pusher), new(*line.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		scheduler.New,
		bootstrap.NewApp,
	)
	return nil, nil
}
