package pricing

import (
	"context"

	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

// Repository reads the price tables.
type Repository interface {
	// GetBasePrice returns the base price; found is false when no row exists.
	GetBasePrice(ctx context.Context, domain Domain, model, storage string) (price types.Money, found bool, err error)

	// ListDeductionRules returns all rules of a domain for a model (every storage).
	ListDeductionRules(ctx context.Context, domain Domain, model string) ([]DeductionRule, error)

	// GetGuaranteePrice returns the buyback floor; found is false when no row exists.
	GetGuaranteePrice(ctx context.Context, model, storage string) (price types.Money, found bool, err error)
}

// InventoryRepository reads devices held for resale and stores computed prices.
type InventoryRepository interface {
	GetInventoryItem(ctx context.Context, itemID id.ID) (*InventoryItem, error)
	UpdateResalePrice(ctx context.Context, itemID id.ID, price types.Money) error
}
