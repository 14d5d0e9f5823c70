package shortage

import (
	"context"
	"fmt"

	"repairdesk/internal/core/tx"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/pkg/logger"
)

// RecordSource reads parts stock records.
type RecordSource interface {
	List(ctx context.Context, filter partsstock.ListFilter) ([]partsstock.Record, error)
}

// PoolSource reads pool configuration and model display order.
type PoolSource interface {
	Resolver(ctx context.Context) (*partspool.Resolver, error)
	ModelOrder(ctx context.Context) (map[string]int, error)
}

// Service builds shortage reports. Every call re-reads records and pool
// configuration; nothing is cached.
type Service struct {
	records   RecordSource
	pools     PoolSource
	txManager tx.Manager
}

// NewService creates a new shortage service. When txManager offers
// read-only transactions, pool configuration and records are read from one
// snapshot.
func NewService(records RecordSource, pools PoolSource, txManager tx.Manager) *Service {
	if txManager == nil {
		txManager = tx.Noop{}
	}
	return &Service{records: records, pools: pools, txManager: txManager}
}

// GetShortageReport evaluates the current stock against required quantities.
func (s *Service) GetShortageReport(ctx context.Context, f Filter) (*Report, error) {
	var (
		resolver *partspool.Resolver
		order    map[string]int
		records  []partsstock.Record
	)
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		if resolver, err = s.pools.Resolver(ctx); err != nil {
			return err
		}
		if order, err = s.pools.ModelOrder(ctx); err != nil {
			return err
		}

		// Models are not filtered at the store: pool rows need every member.
		records, err = s.records.List(ctx, partsstock.ListFilter{
			ShopIDs:     f.ShopIDs,
			SupplierIDs: f.SupplierIDs,
			PartsTypes:  f.PartsTypes,
		})
		if err != nil {
			return fmt.Errorf("list parts stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report := Evaluate(records, resolver, order, f)

	logger.Debug(ctx, "shortage report built",
		"records", len(records),
		"rows", len(report.Rows),
		"shortage_count", report.ShortageCount,
		"cumulative", f.Cumulative,
	)
	return report, nil
}
