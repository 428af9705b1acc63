// Package config loads runtime settings from the environment and opens the backing stores.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AliAmzai/Tablr/utils"
	"golang.org/x/crypto/bcrypt"
)

const defaultDatabaseURL = "host=localhost user=postgres password=postgres dbname=tablr port=5432 sslmode=disable"

type Config struct {
	Port        string
	GinMode     string
	AppEnv      string
	DBDriver    string
	DatabaseURL string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL  string
	OTLPEndpoint string

	ReservationSweep time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		AppEnv:      getEnv("APP_ENV", "development"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   getDuration("TOKEN_TTL", 24*time.Hour),
		BcryptCost: getInt("BCRYPT_COST", bcrypt.DefaultCost),

		CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		CacheTTL:      getDuration("CACHE_TTL", 30*time.Second),

		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		ReservationSweep: getDuration("RESERVATION_SWEEP_INTERVAL", time.Minute),
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		utils.InfoLogger.Warnf("BCRYPT_COST %d out of range, using %d", cfg.BcryptCost, bcrypt.DefaultCost)
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.DatabaseURL == defaultDatabaseURL {
		utils.InfoLogger.Warn("DATABASE_URL not set, using local default")
	}
	if cfg.AppEnv == "production" && len(cfg.JWTSecret) < 32 {
		utils.ErrorLogger.Fatal("JWT_SECRET must be set to at least 32 characters in production")
	}
	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.InfoLogger.Warnf("Invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		utils.InfoLogger.Warnf("Invalid %s=%q, using %v", key, v, def)
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		utils.InfoLogger.Warnf("Invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
