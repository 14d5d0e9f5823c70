package pricing

import (
	"context"
	"fmt"
	"strings"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/pkg/logger"
)

// Service answers quote requests from the counter and prices inventory for resale.
// It re-reads the price tables on every call.
type Service struct {
	repo      Repository
	inventory InventoryRepository
}

// NewService creates a new pricing service. inventory may be nil when the
// write-back path is not used.
func NewService(repo Repository, inventory InventoryRepository) *Service {
	return &Service{
		repo:      repo,
		inventory: inventory,
	}
}

// QuoteRequest identifies the device being priced.
type QuoteRequest struct {
	Model      string
	Storage    string
	Conditions ConditionSet
}

func (r QuoteRequest) validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return apperror.NewValidation("model is required").WithDetail("field", "model")
	}
	if strings.TrimSpace(r.Storage) == "" {
		return apperror.NewValidation("storage is required").WithDetail("field", "storage")
	}
	return nil
}

// QuoteBuyback prices a device offered by a customer.
// Deductions are percentages of the base price; the guarantee price is the floor.
func (s *Service) QuoteBuyback(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	base, err := s.basePrice(ctx, DomainBuyback, req.Model, req.Storage)
	if err != nil {
		return nil, err
	}

	floor, found, err := s.repo.GetGuaranteePrice(ctx, req.Model, req.Storage)
	if err != nil {
		return nil, fmt.Errorf("get guarantee price: %w", err)
	}
	if !found {
		return nil, apperror.NewPriceDataMissing("guarantee price", map[string]any{
			"model":   req.Model,
			"storage": req.Storage,
		})
	}

	table, err := s.table(ctx, DomainBuyback, req.Model, req.Storage)
	if err != nil {
		return nil, err
	}

	return Calculate(base, req.Conditions, &floor, RateStrategy{Table: table})
}

// QuoteResale prices a device for the shop floor. Deductions are flat amounts
// and there is no floor.
func (s *Service) QuoteResale(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	base, err := s.basePrice(ctx, DomainResale, req.Model, req.Storage)
	if err != nil {
		return nil, err
	}

	table, err := s.table(ctx, DomainResale, req.Model, req.Storage)
	if err != nil {
		return nil, err
	}

	return Calculate(base, req.Conditions, nil, FlatStrategy{Table: table})
}

// PricedItem is the write-back result for an inventory item.
type PricedItem struct {
	ItemID id.ID       `json:"itemId"`
	Quote  *Quote      `json:"quote"`
	Margin types.Money `json:"margin"`
}

// PriceInventoryItem computes the resale price of a stocked device and stores it.
func (s *Service) PriceInventoryItem(ctx context.Context, itemID id.ID) (*PricedItem, error) {
	if s.inventory == nil {
		return nil, apperror.NewInternal(fmt.Errorf("inventory repository not configured"))
	}

	item, err := s.inventory.GetInventoryItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}

	quote, err := s.QuoteResale(ctx, QuoteRequest{
		Model:      item.Model,
		Storage:    item.Storage,
		Conditions: item.Conditions,
	})
	if err != nil {
		return nil, err
	}

	if err := s.inventory.UpdateResalePrice(ctx, itemID, quote.FinalPrice); err != nil {
		return nil, fmt.Errorf("update resale price: %w", err)
	}

	margin := quote.MarginAgainst(item.Cost)
	logger.Info(ctx, "inventory item priced",
		"item_id", itemID,
		"model", item.Model,
		"storage", item.Storage,
		"final_price", quote.FinalPrice.String(),
		"margin", margin.String(),
	)

	return &PricedItem{ItemID: itemID, Quote: quote, Margin: margin}, nil
}

func (s *Service) basePrice(ctx context.Context, domain Domain, model, storage string) (types.Money, error) {
	price, found, err := s.repo.GetBasePrice(ctx, domain, model, storage)
	if err != nil {
		return types.Zero(), fmt.Errorf("get %s base price: %w", domain, err)
	}
	if !found {
		return types.Zero(), apperror.NewPriceDataMissing(string(domain)+" base price", map[string]any{
			"model":   model,
			"storage": storage,
		})
	}
	return price, nil
}

func (s *Service) table(ctx context.Context, domain Domain, model, storage string) (*DeductionTable, error) {
	rules, err := s.repo.ListDeductionRules(ctx, domain, model)
	if err != nil {
		return nil, fmt.Errorf("list %s deduction rules: %w", domain, err)
	}
	return NewDeductionTable(domain, model, storage, rules), nil
}
