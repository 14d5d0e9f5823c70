package partsstock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"repairdesk/internal/core/apperror"
	appctx "repairdesk/internal/core/context"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/tx"
	"repairdesk/internal/domain/partspool"
	"repairdesk/pkg/logger"
)

var tracer = otel.Tracer("repairdesk/partsstock")

// ResolverSource loads the current pool configuration.
type ResolverSource interface {
	Resolver(ctx context.Context) (*partspool.Resolver, error)
}

// Service is the only writer of parts stock quantities.
type Service struct {
	repo      Repository
	pools     ResolverSource
	txManager tx.Manager
	locker    PoolLocker
	auditor   Auditor
	now       func() time.Time
}

// ServiceConfig holds Service dependencies. Locker is required; Auditor and
// TxManager are optional (without a TxManager failed batches are not rolled back).
type ServiceConfig struct {
	Repo      Repository
	Pools     ResolverSource
	TxManager tx.Manager
	Locker    PoolLocker
	Auditor   Auditor
}

// NewService creates a new parts stock service.
func NewService(cfg ServiceConfig) *Service {
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Noop{}
	}
	return &Service{
		repo:      cfg.Repo,
		pools:     cfg.Pools,
		txManager: txm,
		locker:    cfg.Locker,
		auditor:   cfg.Auditor,
		now:       time.Now,
	}
}

// SetPoolQuantityRequest is an operator edit of an aggregate quantity.
type SetPoolQuantityRequest struct {
	ShopID         string
	PoolKeyOrModel string
	PartsType      partspool.PartsType
	SupplierID     string
	Field          Field
	NewAggregate   int
}

func (r SetPoolQuantityRequest) validate() error {
	if r.NewAggregate < 0 {
		return apperror.NewInvalidAggregate(r.NewAggregate)
	}
	required := [][2]string{
		{"shopId", r.ShopID},
		{"pool", r.PoolKeyOrModel},
		{"partsType", string(r.PartsType)},
		{"supplierId", r.SupplierID},
	}
	for _, kv := range required {
		if strings.TrimSpace(kv[1]) == "" {
			return apperror.NewValidation(kv[0]+" is required").WithDetail("field", kv[0])
		}
	}
	if _, err := ParseField(string(r.Field)); err != nil {
		return err
	}
	return nil
}

// SetPoolQuantity sets the aggregate of field for a pool (or a single model)
// and redistributes it across member records.
//
// The read, split and writes run under the pool lock and inside one transaction.
// Writes are sequential; each carries an optimistic version check. If any write
// fails the call returns PARTIAL_WRITE_FAILURE listing the records already written.
func (s *Service) SetPoolQuantity(ctx context.Context, req SetPoolQuantityRequest) (_ *PoolEdit, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "partsstock.SetPoolQuantity")
	span.SetAttributes(
		attribute.String("pool", req.PoolKeyOrModel),
		attribute.String("parts_type", string(req.PartsType)),
		attribute.String("field", string(req.Field)),
		attribute.Int("aggregate", req.NewAggregate),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	resolver, err := s.pools.Resolver(ctx)
	if err != nil {
		return nil, err
	}
	unit, err := resolver.Resolve(req.PoolKeyOrModel, req.PartsType)
	if err != nil {
		return nil, err
	}

	lockKey := PoolLockKey(req.ShopID, req.SupplierID, unit)
	unlock, err := s.locker.Lock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	edit := &PoolEdit{
		Unit:      unit,
		ShopID:    req.ShopID,
		Supplier:  req.SupplierID,
		Field:     req.Field,
		Aggregate: req.NewAggregate,
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		records, err := s.repo.ListMembers(ctx, req.ShopID, req.SupplierID, req.PartsType, unit.Members)
		if err != nil {
			return fmt.Errorf("list pool members: %w", err)
		}

		members, missing := orderMembers(records, unit.Members)
		if len(members) == 0 {
			return apperror.NewNotFound("parts stock record", map[string]any{
				"shopId":     req.ShopID,
				"pool":       unit.Key,
				"partsType":  string(req.PartsType),
				"supplierId": req.SupplierID,
			})
		}
		if len(missing) > 0 {
			logger.Warn(ctx, "pool members without stock record",
				"pool", unit.Key,
				"shop_id", req.ShopID,
				"supplier_id", req.SupplierID,
				"missing", missing,
			)
		}

		updates, err := Redistribute(members, req.NewAggregate, req.Field)
		if err != nil {
			return err
		}

		if err := s.apply(ctx, updates); err != nil {
			return err
		}
		edit.Records = updates

		if s.auditor != nil {
			if err := s.auditor.LogRedistribution(ctx, Redistribution{
				PoolKey:    unit.Key,
				ShopID:     req.ShopID,
				SupplierID: req.SupplierID,
				PartsType:  req.PartsType,
				Field:      req.Field,
				Aggregate:  req.NewAggregate,
				Records:    updates,
				StaffID:    appctx.GetStaffID(ctx),
				At:         s.now().UTC(),
			}); err != nil {
				return fmt.Errorf("audit redistribution: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if apperror.HasCode(err, apperror.CodePartialWriteFailure) {
			logger.Error(ctx, "pool redistribution failed",
				"pool", unit.Key,
				"shop_id", req.ShopID,
				"supplier_id", req.SupplierID,
				"field", req.Field,
				"error", err,
			)
		}
		return nil, err
	}

	logger.Info(ctx, "pool quantity set",
		"pool", unit.Key,
		"shared", unit.Shared,
		"shop_id", req.ShopID,
		"supplier_id", req.SupplierID,
		"parts_type", req.PartsType,
		"field", req.Field,
		"aggregate", req.NewAggregate,
		"members", len(edit.Records),
	)

	return edit, nil
}

// apply writes updates in order and stops at the first failure.
func (s *Service) apply(ctx context.Context, updates []UpdatedRecord) error {
	written := make([]id.ID, 0, len(updates))
	for i := range updates {
		u := &updates[i]
		version, err := s.repo.UpdateQuantity(ctx, u.ID, u.Field, u.Value, u.Version)
		if err != nil {
			return apperror.NewPartialWriteFailure(id.Strings(written), u.ID.String(), tx.Atomic(s.txManager), err)
		}
		u.Version = version
		written = append(written, u.ID)
	}
	return nil
}

// PoolLockKey identifies the records one edit may touch.
func PoolLockKey(shopID, supplierID string, unit partspool.Unit) string {
	return strings.Join([]string{"parts-pool", shopID, supplierID, unit.Key, string(unit.PartsType)}, ":")
}

// ProvisionRequest creates one record per combination of its lists.
type ProvisionRequest struct {
	ShopIDs     []string
	Models      []string
	PartsTypes  []partspool.PartsType
	SupplierIDs []string
}

// Provision creates missing zero-quantity records. Existing records are left untouched.
func (s *Service) Provision(ctx context.Context, req ProvisionRequest) (int, error) {
	if len(req.ShopIDs) == 0 || len(req.Models) == 0 || len(req.PartsTypes) == 0 || len(req.SupplierIDs) == 0 {
		return 0, apperror.NewValidation("shopIds, models, partsTypes and supplierIds are required")
	}

	now := s.now().UTC()
	records := make([]Record, 0, len(req.ShopIDs)*len(req.Models)*len(req.PartsTypes)*len(req.SupplierIDs))
	for _, shop := range req.ShopIDs {
		for _, model := range req.Models {
			for _, pt := range req.PartsTypes {
				for _, supplier := range req.SupplierIDs {
					records = append(records, Record{
						ID:         id.New(),
						ShopID:     shop,
						Model:      model,
						PartsType:  pt,
						SupplierID: supplier,
						Version:    1,
						UpdatedAt:  now,
					})
				}
			}
		}
	}

	var created int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.Provision(ctx, records)
		if err != nil {
			return fmt.Errorf("provision parts stock: %w", err)
		}
		created = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "parts stock provisioned",
		"candidates", len(records),
		"created", created,
	)
	return created, nil
}

// List returns records for reporting.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list parts stock: %w", err)
	}
	return records, nil
}
