package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"datenite/internal/config"
)

var Module = fx.Options(
	fx.Provide(provideLogger),
	fx.Invoke(registerSync),
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func registerSync(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr sync fails on some terminals
			_ = log.Sync()
			return nil
		},
	})
}
