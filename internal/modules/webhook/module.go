package webhook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	healthstate "github.com/ttnghia195/trade-signal-hook/internal/modules/health/service"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/webhook/service"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, s *service.Server, state *healthstate.State) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() { _ = srv.Serve(ln) }()
			state.SetReady(true)
			logger.Info("webhook listening on %s", addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(
			service.NewServer,
		),
		fx.Invoke(RunHTTP),
	)
}
