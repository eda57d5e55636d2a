package telegram

import (
	"context"

	"go.uber.org/fx"

	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	"github.com/ttnghia195/trade-signal-hook/internal/notify"
	"github.com/ttnghia195/trade-signal-hook/internal/trade"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			// Notifier: если TELEGRAM_* нет — используем stdout
			func(cfg *config.Config, prices notify.PriceSource) notify.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, prices); err == nil {
						return tg
					} else {
						logger.Error("telegram init failed, falling back to stdout: %v", err)
					}
				}
				return notify.NewStdout()
			},
		),
		// Репортер цепляем после сборки графа: trade.Service сам шлёт
		// через Notifier, напрямую в конструктор его не затащить.
		fx.Invoke(
			func(lc fx.Lifecycle, ctx context.Context, n notify.Notifier, svc *trade.Service) {
				tg, ok := n.(*notify.Telegram)
				if !ok {
					return
				}
				tg.AttachReporter(svc)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						return tg.Start(ctx)
					},
					OnStop: func(context.Context) error {
						tg.Stop()
						return nil
					},
				})
			},
		),
	)
}
