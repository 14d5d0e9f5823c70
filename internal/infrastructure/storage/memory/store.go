// Package memory provides in-memory repositories for tests and STORAGE=memory runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/tx"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/domain/warranty"
)

// Store keeps every table in maps guarded by one lock.
type Store struct {
	mu sync.RWMutex

	models     []partspool.DeviceModel
	groups     []partspool.Group
	stock      map[id.ID]partsstock.Record
	basePrices map[priceKey]types.Money
	guarantees map[priceKey]types.Money
	rules      []pricing.DeductionRule
	inventory  map[id.ID]pricing.InventoryItem
	sales      map[id.ID]time.Time
	audit      []partsstock.Redistribution

	txMu sync.Mutex
	now  func() time.Time
}

type priceKey struct {
	domain  pricing.Domain
	model   string
	storage string
}

// Verify interface compliance
var (
	_ partspool.Repository        = (*Store)(nil)
	_ partsstock.Repository       = (*Store)(nil)
	_ partsstock.Auditor          = (*Store)(nil)
	_ pricing.Repository          = (*Store)(nil)
	_ pricing.InventoryRepository = (*Store)(nil)
	_ warranty.SaleRepository     = (*Store)(nil)
	_ tx.Manager                  = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		stock:      make(map[id.ID]partsstock.Record),
		basePrices: make(map[priceKey]types.Money),
		guarantees: make(map[priceKey]types.Money),
		inventory:  make(map[id.ID]pricing.InventoryItem),
		sales:      make(map[id.ID]time.Time),
		now:        time.Now,
	}
}

// --- loading ---

// LoadModels replaces the device model list.
func (s *Store) LoadModels(models []partspool.DeviceModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = append([]partspool.DeviceModel(nil), models...)
}

// LoadGroups replaces the pool configuration.
func (s *Store) LoadGroups(groups []partspool.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = make([]partspool.Group, len(groups))
	for i, g := range groups {
		g.Members = append([]string(nil), g.Members...)
		g.SharedTypes = append([]partspool.PartsType(nil), g.SharedTypes...)
		s.groups[i] = g
	}
}

// SetBasePrice stores a base price.
func (s *Store) SetBasePrice(p pricing.BasePrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basePrices[priceKey{p.Domain, p.Model, p.Storage}] = p.Price
}

// SetGuaranteePrice stores a buyback floor.
func (s *Store) SetGuaranteePrice(p pricing.GuaranteePrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guarantees[priceKey{"", p.Model, p.Storage}] = p.Price
}

// AddRule appends a deduction rule.
func (s *Store) AddRule(r pricing.DeductionRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, r)
}

// PutInventoryItem stores an inventory item.
func (s *Store) PutInventoryItem(item pricing.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[item.ID] = item
}

// PutSale stores the sale date of a sales line item.
func (s *Store) PutSale(saleLineID id.ID, soldAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[saleLineID] = soldAt
}

// --- partspool.Repository ---

// ListGroups implements partspool.Repository.
func (s *Store) ListGroups(_ context.Context) ([]partspool.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]partspool.Group, len(s.groups))
	for i, g := range s.groups {
		g.Members = append([]string(nil), g.Members...)
		g.SharedTypes = append([]partspool.PartsType(nil), g.SharedTypes...)
		out[i] = g
	}
	return out, nil
}

// ListModels implements partspool.Repository.
func (s *Store) ListModels(_ context.Context) ([]partspool.DeviceModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]partspool.DeviceModel(nil), s.models...), nil
}

// --- partsstock.Repository ---

// ListMembers implements partsstock.Repository.
func (s *Store) ListMembers(_ context.Context, shopID, supplierID string, pt partspool.PartsType, models []string) ([]partsstock.Record, error) {
	want := make(map[string]bool, len(models))
	for _, m := range models {
		want[m] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []partsstock.Record
	for _, r := range s.stock {
		if r.ShopID == shopID && r.SupplierID == supplierID && r.PartsType == pt && want[r.Model] {
			out = append(out, r)
		}
	}
	return out, nil
}

// UpdateQuantity implements partsstock.Repository.
func (s *Store) UpdateQuantity(ctx context.Context, recordID id.ID, field partsstock.Field, value, expectedVersion int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.stock[recordID]
	if !ok {
		return 0, apperror.NewNotFound("parts stock record", recordID)
	}
	if r.Version != expectedVersion {
		return 0, apperror.NewConcurrentModification("parts stock record", recordID)
	}
	s.touchStock(ctx, recordID)
	r.Set(field, value)
	r.Version++
	r.UpdatedAt = s.now().UTC()
	s.stock[recordID] = r
	return r.Version, nil
}

// List implements partsstock.Repository.
func (s *Store) List(_ context.Context, f partsstock.ListFilter) ([]partsstock.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []partsstock.Record
	for _, r := range s.stock {
		if anyOf(f.ShopIDs, r.ShopID) && anyOf(f.SupplierIDs, r.SupplierID) &&
			anyOf(f.PartsTypes, r.PartsType) && anyOf(f.Models, r.Model) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ShopID != b.ShopID {
			return a.ShopID < b.ShopID
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.PartsType != b.PartsType {
			return a.PartsType < b.PartsType
		}
		return a.SupplierID < b.SupplierID
	})
	return out, nil
}

// Provision implements partsstock.Repository.
func (s *Store) Provision(ctx context.Context, records []partsstock.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type naturalKey struct {
		shop, model, supplier string
		pt                    partspool.PartsType
	}
	existing := make(map[naturalKey]bool, len(s.stock))
	for _, r := range s.stock {
		existing[naturalKey{r.ShopID, r.Model, r.SupplierID, r.PartsType}] = true
	}

	created := 0
	for _, r := range records {
		k := naturalKey{r.ShopID, r.Model, r.SupplierID, r.PartsType}
		if existing[k] {
			continue
		}
		existing[k] = true
		s.touchStock(ctx, r.ID)
		s.stock[r.ID] = r
		created++
	}
	return created, nil
}

// LogRedistribution implements partsstock.Auditor. Inside a transaction the
// entry becomes visible on commit.
func (s *Store) LogRedistribution(ctx context.Context, r partsstock.Redistribution) error {
	if j := journalFrom(ctx); j != nil {
		j.audit = append(j.audit, r)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, r)
	return nil
}

// AuditLog returns recorded redistributions, oldest first.
func (s *Store) AuditLog() []partsstock.Redistribution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]partsstock.Redistribution(nil), s.audit...)
}

// --- pricing.Repository ---

// GetBasePrice implements pricing.Repository.
func (s *Store) GetBasePrice(_ context.Context, domain pricing.Domain, model, storage string) (types.Money, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.basePrices[priceKey{domain, model, storage}]
	return p, ok, nil
}

// ListDeductionRules implements pricing.Repository.
func (s *Store) ListDeductionRules(_ context.Context, domain pricing.Domain, model string) ([]pricing.DeductionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []pricing.DeductionRule
	for _, r := range s.rules {
		if r.Domain == domain && r.Model == model {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetGuaranteePrice implements pricing.Repository.
func (s *Store) GetGuaranteePrice(_ context.Context, model, storage string) (types.Money, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.guarantees[priceKey{"", model, storage}]
	return p, ok, nil
}

// GetInventoryItem implements pricing.InventoryRepository.
func (s *Store) GetInventoryItem(_ context.Context, itemID id.ID) (*pricing.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.inventory[itemID]
	if !ok {
		return nil, apperror.NewNotFound("inventory item", itemID)
	}
	return &item, nil
}

// UpdateResalePrice implements pricing.InventoryRepository.
func (s *Store) UpdateResalePrice(ctx context.Context, itemID id.ID, price types.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.inventory[itemID]
	if !ok {
		return apperror.NewNotFound("inventory item", itemID)
	}
	s.touchInventory(ctx, itemID)
	item.ResalePrice = &price
	item.UpdatedAt = s.now().UTC()
	s.inventory[itemID] = item
	return nil
}

// --- warranty.SaleRepository ---

// GetSaleDate implements warranty.SaleRepository.
func (s *Store) GetSaleDate(_ context.Context, saleLineID id.ID) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	soldAt, ok := s.sales[saleLineID]
	if !ok {
		return time.Time{}, apperror.NewNotFound("sales line item", saleLineID)
	}
	return soldAt, nil
}

func anyOf[T comparable](list []T, v T) bool {
	if len(list) == 0 {
		return true
	}
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
