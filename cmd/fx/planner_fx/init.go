package planner_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"datenite/internal/config"
	"datenite/internal/planner"
	"datenite/internal/repositories"
	"datenite/internal/services"
)

var Module = fx.Provide(
	providePlanRepo, providePlanService,
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(
	planRepo repositories.IPlanRepository,
	generator *planner.Generator,
	cfg *config.Config,
	log *zap.Logger,
) services.PlanServiceInterface {
	return services.NewPlanService(planRepo, generator, cfg, log.Named("plans"))
}
