package pricing_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/infrastructure/storage/postgres"
)

const inventoryTable = "inventory_items"

// InventoryRepo implements pricing.InventoryRepository.
type InventoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ pricing.InventoryRepository = (*InventoryRepo)(nil)

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txManager *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetInventoryItem implements pricing.InventoryRepository.
func (r *InventoryRepo) GetInventoryItem(ctx context.Context, itemID id.ID) (*pricing.InventoryItem, error) {
	sql, args, err := r.builder.Select(postgres.DBColumns[pricing.InventoryItem]()...).
		From(inventoryTable).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item pricing.InventoryItem
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("inventory item", itemID)
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return &item, nil
}

// UpdateResalePrice implements pricing.InventoryRepository.
func (r *InventoryRepo) UpdateResalePrice(ctx context.Context, itemID id.ID, price types.Money) error {
	sql, args, err := r.builder.Update(inventoryTable).
		Set("resale_price", price).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update resale price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory item", itemID)
	}
	return nil
}
