// Package main is the entry point for the repairdesk maintenance worker.
// It expires idempotency keys and reports connection pool usage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	appctx "repairdesk/internal/core/context"
	"repairdesk/internal/infrastructure/storage/postgres"
	"repairdesk/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting repairdesk worker")

	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	poolCfg.AppName = "repairdesk-worker"
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 1

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	worker := NewWorker(WorkerConfig{
		Pool:            pool,
		Idempotency:     postgres.NewIdempotencyStore(txManager, getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)),
		CleanupInterval: getEnvDuration("WORKER_CLEANUP_INTERVAL", time.Hour),
		StatsInterval:   getEnvDuration("WORKER_STATS_INTERVAL", 5*time.Minute),
	}, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// IdempotencyCleaner removes expired idempotency keys.
type IdempotencyCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// StatsReporter logs connection pool usage.
type StatsReporter interface {
	LogPoolStats(ctx context.Context)
}

// WorkerConfig holds worker dependencies and schedule.
type WorkerConfig struct {
	Pool            StatsReporter
	Idempotency     IdempotencyCleaner
	CleanupInterval time.Duration
	StatsInterval   time.Duration
}

// Worker runs periodic maintenance jobs.
type Worker struct {
	cfg WorkerConfig
	log *logger.Logger
}

func NewWorker(cfg WorkerConfig, log *logger.Logger) *Worker {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = 5 * time.Minute
	}
	return &Worker{
		cfg: cfg,
		log: log.WithComponent("worker"),
	}
}

// Run blocks until ctx is cancelled. Cleanup runs once on start.
func (w *Worker) Run(ctx context.Context) {
	cleanupTicker := time.NewTicker(w.cfg.CleanupInterval)
	defer cleanupTicker.Stop()

	statsTicker := time.NewTicker(w.cfg.StatsInterval)
	defer statsTicker.Stop()

	w.cleanupIdempotency(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanupTicker.C:
			w.cleanupIdempotency(ctx)
		case <-statsTicker.C:
			if w.cfg.Pool != nil {
				w.cfg.Pool.LogPoolStats(ctx)
			}
		}
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	if w.cfg.Idempotency == nil {
		return
	}
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext(ctx, "cleanup_idempotency"))
	log := w.log.WithContext(ctx)

	n, err := w.cfg.Idempotency.CleanupExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Errorw("failed to clean up idempotency keys", "error", err)
		}
		return
	}
	if n > 0 {
		log.Infow("cleaned up idempotency keys", "count", n)
	}
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
