package main

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/tx"
	"repairdesk/internal/demo"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/domain/warranty"
	"repairdesk/internal/infrastructure/http/v1/handlers"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/internal/infrastructure/storage/memory"
	"repairdesk/internal/infrastructure/storage/postgres"
	"repairdesk/internal/infrastructure/storage/postgres/pool_repo"
	"repairdesk/internal/infrastructure/storage/postgres/pricing_repo"
	"repairdesk/internal/infrastructure/storage/postgres/sales_repo"
	"repairdesk/internal/infrastructure/storage/postgres/stock_repo"
	"repairdesk/pkg/logger"
)

// backend bundles the repositories of one storage implementation.
type backend struct {
	name        string
	pools       partspool.Repository
	stock       partsstock.Repository
	prices      pricing.Repository
	inventory   pricing.InventoryRepository
	sales       warranty.SaleRepository
	txManager   tx.Manager
	auditor     partsstock.Auditor
	idempotency idempotency.Store
	checks      map[string]handlers.ReadinessChecker

	// seed loads demo stock through the regular write path (memory only)
	seed  func(ctx context.Context, stock *partsstock.Service) error
	close func()
}

func openBackend(ctx context.Context, storage string) (*backend, error) {
	switch storage {
	case "postgres":
		return openPostgres(ctx)
	case "memory":
		return openMemory(ctx), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (want postgres or memory)", storage)
	}
}

func openPostgres(ctx context.Context) (*backend, error) {
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	txManager := postgres.NewTxManager(pool)
	audit, err := postgres.NewAuditService(txManager, getEnvInt("AUDIT_COMPRESS_THRESHOLD", postgres.DefaultCompressThreshold))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init audit: %w", err)
	}

	return &backend{
		name:        "postgres",
		pools:       pool_repo.NewPoolRepo(txManager),
		stock:       stock_repo.NewStockRepo(txManager),
		prices:      pricing_repo.NewPriceRepo(txManager),
		inventory:   pricing_repo.NewInventoryRepo(txManager),
		sales:       sales_repo.NewSalesRepo(txManager),
		txManager:   txManager,
		auditor:     audit,
		idempotency: postgres.NewIdempotencyStore(txManager, getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)),
		checks:      map[string]handlers.ReadinessChecker{"database": pool},
		close:       pool.Close,
	}, nil
}

func openMemory(ctx context.Context) *backend {
	store := memory.NewStore()
	data := demo.New(time.Now())
	data.LoadReference(store)

	logger.Warn(ctx, "using in-memory storage; data is lost on restart")

	return &backend{
		name:        "memory",
		pools:       store,
		stock:       store,
		prices:      store,
		inventory:   store,
		sales:       store,
		txManager:   store,
		auditor:     store,
		idempotency: memory.NewIdempotencyStore(getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)),
		checks:      map[string]handlers.ReadinessChecker{},
		seed: func(ctx context.Context, stock *partsstock.Service) error {
			created, err := data.ApplyStock(ctx, stock)
			if err != nil {
				return err
			}
			logger.Info(ctx, "demo data loaded", "stock_records", created)
			return nil
		},
		close: func() {},
	}
}
