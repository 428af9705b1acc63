package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AliAmzai/Tablr/utils"
)

// NewRedisClient connects to REDIS_ADDR. It returns nil when Redis is not configured or not
// reachable; callers then run without the response cache.
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		utils.InfoLogger.Info("REDIS_ADDR not set, response cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		utils.ErrorLogger.WithError(err).Warn("Redis unreachable, response cache disabled")
		_ = client.Close()
		return nil
	}
	utils.InfoLogger.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
	return client
}
