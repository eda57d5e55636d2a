package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/ttnghia195/trade-signal-hook/internal/journal"
	"github.com/ttnghia195/trade-signal-hook/internal/modules/config"
	"github.com/ttnghia195/trade-signal-hook/pkg/db"
	"github.com/ttnghia195/trade-signal-hook/pkg/logger"
)

// Module отдаёт журнал. Без DSN базы — noop, трейдинг живёт и без аудита.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (journal.Journal, error) {
				if cfg.DB == "" {
					logger.Info("db_dsn is empty, journal disabled")
					return journal.NewNoop(), nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return journal.NewPg(db.NewPgTxManager(poolMaster)), nil
			},
		),
	)
}
