// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"repairdesk/internal/demo"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/infrastructure/lock"
	"repairdesk/internal/infrastructure/storage/postgres"
	"repairdesk/internal/infrastructure/storage/postgres/pool_repo"
	"repairdesk/internal/infrastructure/storage/postgres/stock_repo"
	"repairdesk/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	poolCfg.AppName = "repairdesk-seed"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	data := demo.New(time.Now())

	if err := seedReference(ctx, txManager, data, log); err != nil {
		log.Fatalw("failed to seed reference data", "error", err)
	}

	if os.Getenv("SEED_STOCK") != "false" {
		if err := seedStock(ctx, txManager, data, log); err != nil {
			log.Fatalw("failed to seed parts stock", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedReference writes models, pools, prices, inventory and sales in one transaction.
// Rows that already exist are left untouched, except prices which are refreshed.
func seedReference(ctx context.Context, txManager *postgres.TxManager, data *demo.Dataset, log *logger.Logger) error {
	var queries []postgres.BatchQuery
	add := func(sql string, args ...any) {
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	for _, m := range data.Models {
		add(`
			INSERT INTO device_models (code, name, sort_order)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order
		`, m.Code, m.Name, m.SortOrder)
	}

	for _, g := range data.Groups {
		add(`
			INSERT INTO parts_pool_groups (key, name)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name
		`, g.Key, g.Name)
		for i, model := range g.Members {
			add(`
				INSERT INTO parts_pool_members (group_key, model, position)
				VALUES ($1, $2, $3)
				ON CONFLICT (group_key, model) DO NOTHING
			`, g.Key, model, i)
		}
		for _, pt := range g.SharedTypes {
			add(`
				INSERT INTO parts_pool_shared_types (group_key, parts_type)
				VALUES ($1, $2)
				ON CONFLICT (group_key, parts_type) DO NOTHING
			`, g.Key, pt)
		}
	}

	for _, p := range data.BasePrices {
		add(`
			INSERT INTO price_base (domain, model, storage, price)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (domain, model, storage) DO UPDATE SET price = EXCLUDED.price
		`, p.Domain, p.Model, p.Storage, p.Price)
	}

	for _, g := range data.Guarantees {
		add(`
			INSERT INTO price_guarantee (model, storage, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (model, storage) DO UPDATE SET price = EXCLUDED.price
		`, g.Model, g.Storage, g.Price)
	}

	for _, r := range data.Rules {
		add(`
			INSERT INTO price_deduction_rules (domain, model, storage, kind, grade, value)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (domain, model, (COALESCE(storage, '')), kind, grade) DO UPDATE SET value = EXCLUDED.value
		`, r.Domain, r.Model, r.Storage, r.Kind, r.Grade, r.Value)
	}

	for _, item := range data.Inventory {
		add(`
			INSERT INTO inventory_items (id, model, storage, conditions, cost, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, item.ID, item.Model, item.Storage, item.Conditions, item.Cost, item.UpdatedAt)
	}

	for _, s := range data.Sales {
		add(`
			INSERT INTO sales_line_items (id, model, sold_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, s.ID, s.Model, s.SoldAt)
	}

	var affected int64
	err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := postgres.NewBatchExecutor(txManager).ExecuteBatch(ctx, queries)
		affected = n
		return err
	})
	if err != nil {
		return err
	}

	log.Infow("reference data seeded",
		"statements", len(queries),
		"rows", affected,
		"models", len(data.Models),
		"groups", len(data.Groups),
		"rules", len(data.Rules),
	)
	return nil
}

// seedStock provisions records and sets demo quantities through the regular write path.
func seedStock(ctx context.Context, txManager *postgres.TxManager, data *demo.Dataset, log *logger.Logger) error {
	audit, err := postgres.NewAuditService(txManager, postgres.DefaultCompressThreshold)
	if err != nil {
		return err
	}

	stock := partsstock.NewService(partsstock.ServiceConfig{
		Repo:      stock_repo.NewStockRepo(txManager),
		Pools:     partspool.NewService(pool_repo.NewPoolRepo(txManager)),
		TxManager: txManager,
		Locker:    lock.NewLocal(),
		Auditor:   audit,
	})

	created, err := data.ApplyStock(ctx, stock)
	if err != nil {
		return err
	}

	log.Infow("parts stock seeded",
		"created", created,
		"quantities", len(data.Quantities),
	)
	return nil
}
