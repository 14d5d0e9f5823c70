// Package stock_repo provides the PostgreSQL implementation of partsstock.Repository.
package stock_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/infrastructure/storage/postgres"
)

const stockTable = "parts_stock"

var stockColumns = postgres.DBColumns[partsstock.Record]()

// StockRepo implements partsstock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	now       func() time.Time
}

var _ partsstock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new parts stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:       time.Now,
	}
}

func (r *StockRepo) listMembersQuery(shopID, supplierID string, pt partspool.PartsType, models []string) squirrel.SelectBuilder {
	return r.builder.Select(stockColumns...).
		From(stockTable).
		Where(squirrel.Eq{
			"shop_id":     shopID,
			"supplier_id": supplierID,
			"parts_type":  pt,
			"model":       models,
		})
}

// ListMembers implements partsstock.Repository.
func (r *StockRepo) ListMembers(ctx context.Context, shopID, supplierID string, pt partspool.PartsType, models []string) ([]partsstock.Record, error) {
	if len(models) == 0 {
		return nil, nil
	}
	sql, args, err := r.listMembersQuery(shopID, supplierID, pt, models).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []partsstock.Record
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select pool members: %w", err)
	}
	return records, nil
}

func (r *StockRepo) updateQuantityQuery(recordID id.ID, field partsstock.Field, value, expectedVersion int, at time.Time) squirrel.UpdateBuilder {
	return r.builder.Update(stockTable).
		Set(field.Column(), value).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": recordID, "version": expectedVersion}).
		Suffix("RETURNING version")
}

// UpdateQuantity implements partsstock.Repository.
func (r *StockRepo) UpdateQuantity(ctx context.Context, recordID id.ID, field partsstock.Field, value, expectedVersion int) (int, error) {
	sql, args, err := r.updateQuantityQuery(recordID, field, value, expectedVersion, r.now().UTC()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var version int
	err = querier.QueryRow(ctx, sql, args...).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("update parts stock: %w", err)
	}

	var exists bool
	if err := querier.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parts_stock WHERE id = $1)`, recordID,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check parts stock: %w", err)
	}
	if !exists {
		return 0, apperror.NewNotFound("parts stock record", recordID)
	}
	return 0, apperror.NewConcurrentModification("parts stock record", recordID)
}

func (r *StockRepo) listQuery(f partsstock.ListFilter) squirrel.SelectBuilder {
	q := r.builder.Select(stockColumns...).From(stockTable)
	if len(f.ShopIDs) > 0 {
		q = q.Where(squirrel.Eq{"shop_id": f.ShopIDs})
	}
	if len(f.SupplierIDs) > 0 {
		q = q.Where(squirrel.Eq{"supplier_id": f.SupplierIDs})
	}
	if len(f.PartsTypes) > 0 {
		q = q.Where(squirrel.Eq{"parts_type": f.PartsTypes})
	}
	if len(f.Models) > 0 {
		q = q.Where(squirrel.Eq{"model": f.Models})
	}
	return q.OrderBy("shop_id", "model", "parts_type", "supplier_id")
}

// List implements partsstock.Repository.
func (r *StockRepo) List(ctx context.Context, f partsstock.ListFilter) ([]partsstock.Record, error) {
	sql, args, err := r.listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []partsstock.Record
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select parts stock: %w", err)
	}
	return records, nil
}

func (r *StockRepo) provisionQuery(rec partsstock.Record) squirrel.InsertBuilder {
	return r.builder.Insert(stockTable).
		Columns(stockColumns...).
		Values(rec.ID, rec.ShopID, rec.Model, rec.PartsType, rec.SupplierID,
			rec.RequiredQty, rec.ActualQty, rec.Version, rec.UpdatedAt).
		Suffix("ON CONFLICT (shop_id, model, parts_type, supplier_id) DO NOTHING")
}

// Provision implements partsstock.Repository. All inserts go out in one batch.
func (r *StockRepo) Provision(ctx context.Context, records []partsstock.Record) (int, error) {
	queries := make([]postgres.BatchQuery, 0, len(records))
	for _, rec := range records {
		sql, args, err := r.provisionQuery(rec).ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}

	created, err := postgres.NewBatchExecutor(r.txManager).ExecuteBatch(ctx, queries)
	if err != nil {
		return 0, fmt.Errorf("provision parts stock: %w", err)
	}
	return int(created), nil
}
