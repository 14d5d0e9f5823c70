// Package shortage compares required and actual parts quantities per stock
// unit (a shared pool or a single model) and flags shortages.
package shortage

import (
	"math"
	"sort"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
)

// Totals is the aggregate of one stock unit.
type Totals struct {
	TotalRequired int  `json:"totalRequired"`
	TotalActual   int  `json:"totalActual"`
	Shortage      int  `json:"shortage"`
	IsShort       bool `json:"isShort"`
}

// Aggregate sums the records of one unit.
func Aggregate(records []partsstock.Record) Totals {
	var t Totals
	for i := range records {
		t.TotalRequired += records[i].RequiredQty
		t.TotalActual += records[i].ActualQty
	}
	return t.settle()
}

func (t Totals) add(o Totals) Totals {
	t.TotalRequired += o.TotalRequired
	t.TotalActual += o.TotalActual
	return t.settle()
}

func (t Totals) settle() Totals {
	t.Shortage = t.TotalRequired - t.TotalActual
	if t.Shortage < 0 {
		t.Shortage = 0
	}
	t.IsShort = t.TotalActual < t.TotalRequired
	return t
}

// ShopTotals is one shop's share of a cumulative row.
type ShopTotals struct {
	ShopID string `json:"shopId"`
	Totals
}

// Row is one line of a shortage report.
//
// Per-shop rows are keyed by (shop, unit, parts-type) and sum every matching
// supplier. Cumulative rows are keyed by (unit, parts-type, supplier) and carry
// a per-shop breakdown whose totals add up to the row.
type Row struct {
	ShopID     string              `json:"shopId,omitempty"`
	UnitKey    string              `json:"unitKey"`
	PartsType  partspool.PartsType `json:"partsType"`
	SupplierID string              `json:"supplierId,omitempty"`
	Shared     bool                `json:"shared"`
	Members    []string            `json:"members"`
	Totals
	Shops []ShopTotals `json:"shops,omitempty"`

	hidden    bool
	sortOrder int
}

// Report is the result of GetShortageReport.
type Report struct {
	Cumulative    bool  `json:"cumulative"`
	Rows          []Row `json:"rows"`
	ShortageCount int   `json:"shortageCount"`
}

// Filter narrows a report. Empty slices mean "any".
type Filter struct {
	ShopIDs      []string
	SupplierIDs  []string
	PartsTypes   []partspool.PartsType
	Cumulative   bool
	OnlyShort    bool
	HiddenModels []string // display setting; never changes totals
}

func (f Filter) match(r *partsstock.Record) bool {
	return in(f.ShopIDs, r.ShopID) && in(f.SupplierIDs, r.SupplierID) && in(f.PartsTypes, r.PartsType)
}

func in[T comparable](list []T, v T) bool {
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

type rowKey struct {
	shop     string
	unit     string
	pt       partspool.PartsType
	supplier string
}

// Evaluate builds a report from records. order maps model codes to their
// display sort order; unknown models sort last.
//
// ShortageCount covers every evaluated row, including rows later dropped by
// OnlyShort or hidden models.
func Evaluate(records []partsstock.Record, resolver *partspool.Resolver, order map[string]int, f Filter) *Report {
	hidden := make(map[string]bool, len(f.HiddenModels))
	for _, m := range f.HiddenModels {
		hidden[m] = true
	}

	rows := make(map[rowKey]*Row)
	shops := make(map[rowKey]map[string]Totals)

	for i := range records {
		r := &records[i]
		if !f.match(r) {
			continue
		}
		unit := resolver.UnitOf(r.Model, r.PartsType)

		key := rowKey{unit: unit.Key, pt: unit.PartsType}
		if f.Cumulative {
			key.supplier = r.SupplierID
		} else {
			key.shop = r.ShopID
		}

		row, ok := rows[key]
		if !ok {
			row = &Row{
				ShopID:     key.shop,
				UnitKey:    unit.Key,
				PartsType:  unit.PartsType,
				SupplierID: key.supplier,
				Shared:     unit.Shared,
				Members:    unit.Members,
				hidden:     !unit.Shared && hidden[unit.Key],
				sortOrder:  unitOrder(unit, order),
			}
			rows[key] = row
		}
		single := Aggregate([]partsstock.Record{*r})
		row.Totals = row.Totals.add(single)

		if f.Cumulative {
			if shops[key] == nil {
				shops[key] = make(map[string]Totals)
			}
			shops[key][r.ShopID] = shops[key][r.ShopID].add(single)
		}
	}

	report := &Report{Cumulative: f.Cumulative, Rows: make([]Row, 0, len(rows))}
	for key, row := range rows {
		if row.IsShort {
			report.ShortageCount++
		}
		if row.hidden || (f.OnlyShort && !row.IsShort) {
			continue
		}
		if f.Cumulative {
			row.Shops = breakdown(shops[key])
		}
		report.Rows = append(report.Rows, *row)
	}
	sortRows(report.Rows)
	return report
}

func breakdown(byShop map[string]Totals) []ShopTotals {
	out := make([]ShopTotals, 0, len(byShop))
	for shop, t := range byShop {
		out = append(out, ShopTotals{ShopID: shop, Totals: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out
}

// unitOrder places a pool at its first-listed member.
func unitOrder(unit partspool.Unit, order map[string]int) int {
	best := math.MaxInt
	for _, m := range unit.Members {
		if o, ok := order[m]; ok && o < best {
			best = o
		}
	}
	return best
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.ShopID != b.ShopID {
			return a.ShopID < b.ShopID
		}
		if a.sortOrder != b.sortOrder {
			return a.sortOrder < b.sortOrder
		}
		if a.UnitKey != b.UnitKey {
			return a.UnitKey < b.UnitKey
		}
		if a.PartsType != b.PartsType {
			return a.PartsType < b.PartsType
		}
		return a.SupplierID < b.SupplierID
	})
}
