// Package pricing_repo provides PostgreSQL implementations of the price tables
// and the inventory items priced from them.
package pricing_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/infrastructure/storage/postgres"
)

// PriceRepo implements pricing.Repository.
type PriceRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ pricing.Repository = (*PriceRepo)(nil)

// NewPriceRepo creates a new price table repository.
func NewPriceRepo(txManager *postgres.TxManager) *PriceRepo {
	return &PriceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getPrice returns one price column; found is false when the row is absent.
func (r *PriceRepo) getPrice(ctx context.Context, q squirrel.SelectBuilder) (types.Money, bool, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return types.Zero(), false, fmt.Errorf("build query: %w", err)
	}

	var price types.Money
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Zero(), false, nil
		}
		return types.Zero(), false, fmt.Errorf("select price: %w", err)
	}
	return price, true, nil
}

func (r *PriceRepo) basePriceQuery(domain pricing.Domain, model, storage string) squirrel.SelectBuilder {
	return r.builder.Select("price").From("price_base").
		Where(squirrel.Eq{"domain": domain, "model": model, "storage": storage})
}

// GetBasePrice implements pricing.Repository.
func (r *PriceRepo) GetBasePrice(ctx context.Context, domain pricing.Domain, model, storage string) (types.Money, bool, error) {
	return r.getPrice(ctx, r.basePriceQuery(domain, model, storage))
}

// GetGuaranteePrice implements pricing.Repository.
func (r *PriceRepo) GetGuaranteePrice(ctx context.Context, model, storage string) (types.Money, bool, error) {
	return r.getPrice(ctx, r.builder.Select("price").From("price_guarantee").
		Where(squirrel.Eq{"model": model, "storage": storage}))
}

func (r *PriceRepo) rulesQuery(domain pricing.Domain, model string) squirrel.SelectBuilder {
	return r.builder.Select(postgres.DBColumns[pricing.DeductionRule]()...).
		From("price_deduction_rules").
		Where(squirrel.Eq{"domain": domain, "model": model}).
		OrderBy("kind", "grade", "storage NULLS FIRST")
}

// ListDeductionRules implements pricing.Repository.
func (r *PriceRepo) ListDeductionRules(ctx context.Context, domain pricing.Domain, model string) ([]pricing.DeductionRule, error) {
	sql, args, err := r.rulesQuery(domain, model).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rules []pricing.DeductionRule
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rules, sql, args...); err != nil {
		return nil, fmt.Errorf("select deduction rules: %w", err)
	}
	return rules, nil
}
