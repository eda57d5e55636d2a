package binance

import (
	"context"

	"go.uber.org/fx"

	"github.com/ttnghia195/trade-signal-hook/internal/modules/binance_client/service"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	"github.com/ttnghia195/trade-signal-hook/internal/notify"
	"github.com/ttnghia195/trade-signal-hook/internal/trade"
)

func Module() fx.Option {
	return fx.Module("binance",
		fx.Provide(
			func(cfg *config.Config) *service.Client {
				c := service.NewClient(cfg.Binance.BaseURL, cfg.Binance.WSURL, cfg.QtyPrecision, cfg.PricePrecision)
				c.SetCreds(cfg.Binance.APIKey, cfg.Binance.APISecret)
				return c
			},
			func(c *service.Client) trade.Exchange { return c },
			func(c *service.Client) notify.PriceSource { return c },
		),
		// Прогрев кэша mark-price по watch_symbols (для /price).
		fx.Invoke(
			func(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, c *service.Client) {
				if len(cfg.WatchSymbols) == 0 {
					return
				}
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						for _, symbol := range cfg.WatchSymbols {
							go func(sym string) {
								// кэш обновляется внутри стрима, канал просто дренируем
								for range c.StreamMarkPrice(ctx, sym) {
								}
							}(symbol)
						}
						return nil
					},
				})
			},
		),
	)
}
