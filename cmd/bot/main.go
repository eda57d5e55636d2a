package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	binance "github.com/ttnghia195/trade-signal-hook/internal/modules/binance_client"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/health"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/postgres"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/telegram"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/webhook"
	"github.com/ttnghia195/trade-signal-hook/internal/trade"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
	"github.com/ttnghia195/trade-signal-hook/pkg/tracing"
)

const serviceName = "trade-signal-hook"

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		binance.Module(),
		trade.Module(),
		telegram.Module(),
		webhook.Module(),
		health.Module(),
		fx.Invoke(
			// трейсер опционален: без jaeger.host работаем на NoopTracer
			func(lc fx.Lifecycle, cfg *config.Config) {
				if cfg.Jaeger.Host == "" {
					return
				}
				_, closeTracer, err := tracing.InitTracer(tracing.Config{
					Host: cfg.Jaeger.Host,
					Port: cfg.Jaeger.Port,
				})
				if err != nil {
					logger.Error("jaeger init: %v", err)
					return
				}
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						closeTracer()
						return nil
					},
				})
			},
		),
	)
	app.Run()
}
