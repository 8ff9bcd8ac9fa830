package infra

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"datenite/internal/config"
	"datenite/internal/models/db_models"
)

func InitPostgresql(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormLogger.Warn
	if cfg.IsProduction() {
		level = gormLogger.Error
	}

	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger: gormLogger.Default.LogMode(level),
	})
	if err != nil {
		log.Error("error connecting to database", zap.Error(err))
		return nil, err
	}

	if err := AutoMigrate(connectionPool); err != nil {
		log.Error("error migrating database", zap.Error(err))
		return nil, err
	}

	log.Info("postgres connected")
	return connectionPool, nil
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Plan{},
		&db_models.Participant{},
		&db_models.AnswerSet{},
		&db_models.LegacyVote{},
	)
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("error closing database connection", zap.Error(err))
		return
	}
	log.Info("postgres connection closed")
}
