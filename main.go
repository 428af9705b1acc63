package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AliAmzai/Tablr/config"
	"github.com/AliAmzai/Tablr/database"
	"github.com/AliAmzai/Tablr/hub"
	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/observability"
	"github.com/AliAmzai/Tablr/router"
	"github.com/AliAmzai/Tablr/services"
	"github.com/AliAmzai/Tablr/utils"
)

const serviceName = "tablr-api"

func init() {
	// Load .env before anything reads the environment
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Info("No .env file found, using process environment")
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWTSecret, cfg.TokenTTL)

	if cfg.GinMode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.AppEnv)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to initialise tracing: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	events, err := services.NewEventPublisher(cfg.RabbitMQURL)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("RabbitMQ unavailable, table events will not be published")
		events = services.NopPublisher{}
	}

	rdb := config.NewRedisClient(cfg)
	wsHub := hub.New()

	rateLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	authLimiter := middlewares.NewStrictRateLimiter()

	monitor := services.NewReservationMonitor(db, cfg.ReservationSweep)
	monitor.Start()

	go pruneLimiters(ctx, rateLimiter, authLimiter)

	r := router.SetupRouter(router.Options{
		DB:          db,
		Hub:         wsHub,
		Events:      events,
		Redis:       rdb,
		CacheTTL:    cfg.CacheTTL,
		CORSOrigins: cfg.CORSOrigins,
		RateLimiter: rateLimiter,
		AuthLimiter: authLimiter,
		BcryptCost:  cfg.BcryptCost,
		Production:  cfg.IsProduction(),
	})
	if err := r.SetTrustedProxies(nil); err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to set trusted proxies")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Infof("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	monitor.Stop()
	wsHub.Close()
	if err := events.Close(); err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to close event publisher")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			utils.ErrorLogger.WithError(err).Error("Failed to close redis client")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to flush traces")
	}
}

// pruneLimiters drops idle visitors so the per-IP maps do not grow without bound.
func pruneLimiters(ctx context.Context, limiters ...*middlewares.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, l := range limiters {
				if n := l.Cleanup(now); n > 0 {
					utils.InfoLogger.Debugf("Removed %d idle rate limit entries", n)
				}
			}
		}
	}
}
