// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/bonpetite/planner/internal/application/planner"
	"github.com/bonpetite/planner/internal/application/quota"
	recipeapp "github.com/bonpetite/planner/internal/application/recipe"
	"github.com/bonpetite/planner/internal/application/shoppinglist"
	"github.com/bonpetite/planner/internal/infrastructure/ai/openai"
	"github.com/bonpetite/planner/internal/infrastructure/config"
	"github.com/bonpetite/planner/internal/infrastructure/http/server"
	gormRepo "github.com/bonpetite/planner/internal/infrastructure/persistence/gorm"
	"github.com/bonpetite/planner/internal/infrastructure/persistence/postgres"
	redisStore "github.com/bonpetite/planner/internal/infrastructure/persistence/redis"
	"github.com/bonpetite/planner/internal/infrastructure/persistence/sqlite"
	"github.com/bonpetite/planner/internal/ports/outbound"
	"github.com/bonpetite/planner/pkg/healthcheck"
	"github.com/bonpetite/planner/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the database connection, driver chosen by config
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		switch cfg.Database.Driver {
		case "postgres":
			return postgres.Connect(cfg, log)
		case "sqlite":
			logLevel := gormLogger.Silent
			if cfg.App.Debug {
				logLevel = gormLogger.Info
			}
			db, err := sqlite.SetupDatabase(cfg.Database.Database+".db", logLevel)
			if err != nil {
				return nil, err
			}
			log.Info("Connected to SQLite database", zap.String("database", cfg.Database.Database))
			return db, nil
		default:
			return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
		}
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewMealPlanRepository,
	gormRepo.NewRecipeRepository,
	gormRepo.NewShoppingListRepository,
	gormRepo.NewTransactionManager,

	// Optional Redis connection; nil when not configured
	func(cfg *config.Config) *redis.Client {
		if cfg.Redis.Host == "" {
			return nil
		}
		return redisStore.NewClient(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.Database)
	},

	// Usage counters live in Redis when configured, otherwise in SQL
	func(client *redis.Client, db *gorm.DB, log *zap.Logger) outbound.UsageStore {
		if client != nil {
			return redisStore.NewUsageStore(client, log)
		}
		log.Info("Redis not configured, using SQL-backed usage counters")
		return gormRepo.NewUsageStore(db)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Recipe generation gateway
	func(cfg *config.Config, log *zap.Logger) outbound.RecipeGenerator {
		return openai.NewClient(cfg.AI, log)
	},

	// Daily generation quota
	func(store outbound.UsageStore, cfg *config.Config, log *zap.Logger) *quota.UsageLimiter {
		return quota.NewUsageLimiter(store, cfg.Quota.DailyGenerationLimit, log)
	},
	func(limiter *quota.UsageLimiter) planner.UsageLimiter {
		return limiter
	},

	planner.NewService,
	shoppinglist.NewService,
	recipeapp.NewService,
)

// HTTPModule provides the HTTP server and its health checks
var HTTPModule = fx.Provide(
	func(cfg *config.Config, db *gorm.DB, client *redis.Client, log *zap.Logger) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("database", healthcheck.NewDatabaseChecker(db))
		if client != nil {
			hc.Register("redis", healthcheck.NewRedisChecker(client))
		}
		return hc
	},
	server.NewServer,
)

// LifecycleModule registers application lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks wires startup and shutdown of the long-lived pieces
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
