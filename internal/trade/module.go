package trade

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("trade",
		fx.Provide(
			NewService,
		),
	)
}
