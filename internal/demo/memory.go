package demo

import (
	"repairdesk/internal/infrastructure/storage/memory"
)

// LoadReference copies models, groups, prices, inventory and sales into a memory store.
// Stock is loaded separately with ApplyStock.
func (d *Dataset) LoadReference(s *memory.Store) {
	s.LoadModels(d.Models)
	s.LoadGroups(d.Groups)
	for _, p := range d.BasePrices {
		s.SetBasePrice(p)
	}
	for _, g := range d.Guarantees {
		s.SetGuaranteePrice(g)
	}
	for _, r := range d.Rules {
		s.AddRule(r)
	}
	for _, item := range d.Inventory {
		s.PutInventoryItem(item)
	}
	for _, sale := range d.Sales {
		s.PutSale(sale.ID, sale.SoldAt)
	}
}
