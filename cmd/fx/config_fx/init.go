package config_fx

import (
	"go.uber.org/fx"

	"datenite/internal/config"
)

var Module = fx.Provide(config.Load)
