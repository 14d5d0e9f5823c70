// Package main is the entry point for the repairdesk API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/domain/shortage"
	"repairdesk/internal/domain/warranty"
	v1 "repairdesk/internal/infrastructure/http/v1"
	"repairdesk/internal/infrastructure/lock"
	"repairdesk/pkg/logger"
)

const version = "0.1.0"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting repairdesk server", "version", version)

	loc, err := time.LoadLocation(getEnv("APP_TZ", "Asia/Tokyo"))
	if err != nil {
		log.Warnw("unknown APP_TZ, falling back to local time", "error", err)
		loc = time.Local
	}

	// --- Storage ---
	be, err := openBackend(ctx, getEnv("STORAGE", "postgres"))
	if err != nil {
		log.Fatalw("failed to open storage", "storage", getEnv("STORAGE", "postgres"), "error", err)
	}
	defer be.close()

	// --- Pool lock ---
	lockWait := getEnvDuration("POOL_LOCK_WAIT", lock.DefaultWait)
	var locker partsstock.PoolLocker = lock.NewLocal(lock.WithWait(lockWait))
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		client := lock.NewRedisClient(lock.RedisConfig{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		})
		defer client.Close()

		if err := lock.Ping(ctx, client); err != nil {
			log.Fatalw("failed to connect to redis", "addr", addr, "error", err)
		}
		redisLock := lock.NewRedis(client, lock.RedisOptions{
			TTL:  getEnvDuration("POOL_LOCK_TTL", 10*time.Second),
			Wait: lockWait,
		})
		be.checks["redis"] = redisLock
		locker = redisLock
		log.Infow("using redis pool lock", "addr", addr)
	} else {
		log.Infow("using in-process pool lock (single instance only)", "wait", lockWait)
	}

	// --- Services ---
	pools := partspool.NewService(be.pools)
	stock := partsstock.NewService(partsstock.ServiceConfig{
		Repo:      be.stock,
		Pools:     pools,
		TxManager: be.txManager,
		Locker:    locker,
		Auditor:   be.auditor,
	})

	if be.seed != nil {
		if err := be.seed(ctx, stock); err != nil {
			log.Fatalw("failed to load demo data", "error", err)
		}
	}

	routerCfg := v1.RouterConfig{
		Logger:     log,
		Pricing:    pricing.NewService(be.prices, be.inventory),
		Warranty:   warranty.NewService(be.sales, func() time.Time { return time.Now().In(loc) }),
		PartsStock: stock,
		Shortage:   shortage.NewService(stock, pools, be.txManager),
		PartsPool:  pools,

		HealthChecks: be.checks,
		Storage:      be.name,
		Version:      version,
		Location:     loc,
	}
	if getEnv("IDEMPOTENCY_ENABLED", "true") == "true" {
		routerCfg.IdempotencyStore = be.idempotency
	}

	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port, "storage", be.name)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
