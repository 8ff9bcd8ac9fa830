package ai_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"datenite/internal/config"
	"datenite/internal/planner"
	"datenite/pkg/ai"
)

var Module = fx.Provide(
	ProvideProviders,
	ProvideGenerator,
)

// ProvideProviders builds the provider chain from the configured keys.
// An empty chain is valid: every plan then uses the local fallback.
func ProvideProviders(lc fx.Lifecycle, cfg *config.Config) ([]ai.Provider, error) {
	providers, err := ai.NewChain(cfg.ProviderConfigs())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			for _, p := range providers {
				if c, ok := p.(io.Closer); ok {
					_ = c.Close()
				}
			}
			return nil
		},
	})
	return providers, nil
}

func ProvideGenerator(providers []ai.Provider, cfg *config.Config, log *zap.Logger) *planner.Generator {
	gen := planner.NewGenerator(providers, cfg.AITimeout, log.Named("planner"))

	if names := gen.Providers(); len(names) == 0 {
		log.Warn("no AI provider configured, plans will use the local fallback")
	} else {
		log.Info("AI providers configured", zap.Strings("providers", names), zap.Duration("timeout", cfg.AITimeout))
	}
	return gen
}
