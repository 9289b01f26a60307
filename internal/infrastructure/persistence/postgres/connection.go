// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"fmt"

	"github.com/bonpetite/planner/internal/infrastructure/config"
	gormModels "github.com/bonpetite/planner/internal/infrastructure/persistence/gorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a pooled PostgreSQL connection and optionally runs
// auto-migration.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.App.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if cfg.Database.AutoMigrate {
		if err := migrate(db); err != nil {
			return nil, err
		}
		log.Info("Database migration complete")
	}

	log.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&gormModels.MealPlanModel{},
		&gormModels.MealPlanItemModel{},
		&gormModels.RecipeModel{},
		&gormModels.ShoppingListModel{},
		&gormModels.UsageCounterModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
