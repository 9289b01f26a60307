package healthcheck

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DatabaseChecker pings the relational database
type DatabaseChecker struct {
	db *gorm.DB
}

// NewDatabaseChecker creates a database health checker
func NewDatabaseChecker(db *gorm.DB) *DatabaseChecker {
	return &DatabaseChecker{db: db}
}

// Check implements Checker
func (c *DatabaseChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "database", LastChecked: start}

	sqlDB, err := c.db.DB()
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		check.Duration = time.Since(start) / time.Millisecond
		return check
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	} else {
		check.Status = StatusHealthy
	}
	check.Duration = time.Since(start) / time.Millisecond
	return check
}

// RedisChecker pings the Redis usage-counter store
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a Redis health checker
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Check implements Checker
func (c *RedisChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "redis", LastChecked: start}

	if err := c.client.Ping(ctx).Err(); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	} else {
		check.Status = StatusHealthy
	}
	check.Duration = time.Since(start) / time.Millisecond
	return check
}
