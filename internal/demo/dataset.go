// Package demo holds the demonstration catalogue loaded by cmd/seed and by
// STORAGE=memory server runs.
package demo

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/pricing"
)

// Sale is a sold device line with its sale date.
type Sale struct {
	ID     id.ID
	Model  string
	SoldAt time.Time
}

// Quantity is an initial aggregate for a pool or an ungrouped model.
type Quantity struct {
	ShopID     string
	Pool       string
	PartsType  partspool.PartsType
	SupplierID string
	Required   int
	Actual     int
}

// Dataset is the full demo catalogue.
type Dataset struct {
	Models     []partspool.DeviceModel
	Groups     []partspool.Group
	BasePrices []pricing.BasePrice
	Guarantees []pricing.GuaranteePrice
	Rules      []pricing.DeductionRule
	Inventory  []pricing.InventoryItem
	Sales      []Sale
	Stock      partsstock.ProvisionRequest
	Quantities []Quantity
}

const (
	PartsBattery partspool.PartsType = "battery"
	PartsScreen  partspool.PartsType = "screen"
	PartsCamera  partspool.PartsType = "camera"
)

// Fixed ids so demo requests can be scripted.
var (
	InventoryIP12 = id.MustParse("01920000-0000-7000-8000-000000000101")
	InventorySE2  = id.MustParse("01920000-0000-7000-8000-000000000102")
	SaleRecent    = id.MustParse("01920000-0000-7000-8000-000000000201")
	SaleOld       = id.MustParse("01920000-0000-7000-8000-000000000202")
)

type modelPrices struct {
	code      string
	storage   string
	buyback   int64
	resale    int64
	guarantee int64
}

var prices = []modelPrices{
	{"IP8", "64GB", 9000, 16800, 3000},
	{"IPSE2", "64GB", 12000, 19800, 4000},
	{"IPSE2", "128GB", 14000, 22800, 5000},
	{"IPSE3", "64GB", 22000, 32800, 8000},
	{"IPSE3", "128GB", 25000, 36800, 9000},
	{"IP12", "64GB", 30000, 44800, 10000},
	{"IP12", "128GB", 34000, 49800, 12000},
	{"IP12P", "128GB", 42000, 59800, 15000},
	{"IP12P", "256GB", 47000, 65800, 17000},
	{"IP13", "128GB", 50000, 69800, 20000},
	{"IP13P", "256GB", 70000, 94800, 28000},
}

// buyback rates are shared by every model; resale amounts scale with the model tier.
var buybackRates = []struct {
	kind  pricing.ConditionKind
	grade pricing.Grade
	rate  string
}{
	{pricing.KindBattery, pricing.BatteryFair, "0.05"},
	{pricing.KindBattery, pricing.BatteryPoor, "0.10"},
	{pricing.KindCamera, pricing.CameraMinor, "0.05"},
	{pricing.KindCamera, pricing.CameraMajor, "0.15"},
	{pricing.KindNetworkLock, pricing.LockTriangle, "0.10"},
	{pricing.KindNetworkLock, pricing.LockCross, "0.50"},
	{pricing.KindScreenCrack, pricing.ScreenCracked, "0.20"},
	{pricing.KindServiceIndicator, pricing.IndicatorShown, "0.05"},
}

var resaleAmounts = []struct {
	kind   pricing.ConditionKind
	grade  pricing.Grade
	amount int64
}{
	{pricing.KindBattery, pricing.BatteryFair, 1000},
	{pricing.KindBattery, pricing.BatteryPoor, 3000},
	{pricing.KindCamera, pricing.CameraMinor, 2000},
	{pricing.KindCamera, pricing.CameraMajor, 6000},
	{pricing.KindNetworkLock, pricing.LockTriangle, 4000},
	{pricing.KindNetworkLock, pricing.LockCross, 15000},
}

// premium models carry a larger flat resale deduction.
var premium = map[string]bool{"IP12P": true, "IP13": true, "IP13P": true}

// New builds the dataset. Sale dates are placed relative to now.
func New(now time.Time) *Dataset {
	d := &Dataset{
		Models: []partspool.DeviceModel{
			{Code: "IP8", Name: "iPhone 8", SortOrder: 10},
			{Code: "IPSE2", Name: "iPhone SE (2nd generation)", SortOrder: 20},
			{Code: "IPSE3", Name: "iPhone SE (3rd generation)", SortOrder: 30},
			{Code: "IP12", Name: "iPhone 12", SortOrder: 40},
			{Code: "IP12P", Name: "iPhone 12 Pro", SortOrder: 50},
			{Code: "IP13", Name: "iPhone 13", SortOrder: 60},
			{Code: "IP13P", Name: "iPhone 13 Pro", SortOrder: 70},
		},
		Groups: []partspool.Group{
			{
				Key:         "SE-FAMILY",
				Name:        "iPhone 8 / SE2 / SE3",
				Members:     []string{"IPSE2", "IPSE3", "IP8"},
				SharedTypes: []partspool.PartsType{PartsBattery, PartsScreen},
			},
			{
				Key:         "IP12-FAMILY",
				Name:        "iPhone 12 / 12 Pro",
				Members:     []string{"IP12", "IP12P"},
				SharedTypes: []partspool.PartsType{PartsScreen},
			},
		},
		Stock: partsstock.ProvisionRequest{
			ShopIDs:     []string{"shibuya", "shinjuku"},
			PartsTypes:  []partspool.PartsType{PartsBattery, PartsScreen, PartsCamera},
			SupplierIDs: []string{"sup-genuine", "sup-compatible"},
		},
	}

	seen := map[string]bool{}
	for _, p := range prices {
		d.BasePrices = append(d.BasePrices,
			pricing.BasePrice{Domain: pricing.DomainBuyback, Model: p.code, Storage: p.storage, Price: types.NewMoney(p.buyback)},
			pricing.BasePrice{Domain: pricing.DomainResale, Model: p.code, Storage: p.storage, Price: types.NewMoney(p.resale)},
		)
		d.Guarantees = append(d.Guarantees, pricing.GuaranteePrice{
			Model: p.code, Storage: p.storage, Price: types.NewMoney(p.guarantee),
		})
		if seen[p.code] {
			continue
		}
		seen[p.code] = true
		d.Rules = append(d.Rules, modelRules(p.code)...)
	}

	for _, m := range d.Models {
		d.Stock.Models = append(d.Stock.Models, m.Code)
	}

	d.Inventory = []pricing.InventoryItem{
		{
			ID:      InventoryIP12,
			Model:   "IP12",
			Storage: "128GB",
			Conditions: pricing.ConditionSet{
				pricing.KindBattery: pricing.BatteryFair,
				pricing.KindCamera:  pricing.CameraMinor,
			},
			Cost:      types.NewMoney(31000),
			UpdatedAt: now.UTC(),
		},
		{
			ID:      InventorySE2,
			Model:   "IPSE2",
			Storage: "64GB",
			Conditions: pricing.ConditionSet{
				pricing.KindNetworkLock: pricing.LockTriangle,
			},
			Cost:      types.NewMoney(12000),
			UpdatedAt: now.UTC(),
		},
	}

	d.Sales = []Sale{
		{ID: SaleRecent, Model: "IP12", SoldAt: now.AddDate(0, 0, -65)},
		{ID: SaleOld, Model: "IPSE2", SoldAt: now.AddDate(0, 0, -400)},
	}

	d.Quantities = []Quantity{
		{ShopID: "shibuya", Pool: "SE-FAMILY", PartsType: PartsBattery, SupplierID: "sup-genuine", Required: 10, Actual: 7},
		{ShopID: "shibuya", Pool: "IP12-FAMILY", PartsType: PartsScreen, SupplierID: "sup-genuine", Required: 6, Actual: 6},
		{ShopID: "shibuya", Pool: "IP13", PartsType: PartsScreen, SupplierID: "sup-compatible", Required: 4, Actual: 1},
		{ShopID: "shinjuku", Pool: "SE-FAMILY", PartsType: PartsScreen, SupplierID: "sup-compatible", Required: 8, Actual: 9},
		{ShopID: "shinjuku", Pool: "IP12", PartsType: PartsBattery, SupplierID: "sup-genuine", Required: 3, Actual: 0},
	}

	return d
}

func modelRules(model string) []pricing.DeductionRule {
	rules := make([]pricing.DeductionRule, 0, len(buybackRates)+len(resaleAmounts))
	for _, r := range buybackRates {
		rules = append(rules, pricing.DeductionRule{
			Domain: pricing.DomainBuyback,
			Model:  model,
			Kind:   r.kind,
			Grade:  r.grade,
			Value:  types.MustMoney(r.rate),
		})
	}
	scale := int64(1)
	if premium[model] {
		scale = 2
	}
	for _, r := range resaleAmounts {
		rules = append(rules, pricing.DeductionRule{
			Domain: pricing.DomainResale,
			Model:  model,
			Kind:   r.kind,
			Grade:  r.grade,
			Value:  types.NewMoney(r.amount * scale),
		})
	}
	return rules
}

// Stocker is the part of partsstock.Service the dataset drives.
type Stocker interface {
	Provision(ctx context.Context, req partsstock.ProvisionRequest) (int, error)
	SetPoolQuantity(ctx context.Context, req partsstock.SetPoolQuantityRequest) (*partsstock.PoolEdit, error)
}

// ApplyStock provisions stock records and sets the initial aggregates through
// the regular write path.
func (d *Dataset) ApplyStock(ctx context.Context, stock Stocker) (int, error) {
	created, err := stock.Provision(ctx, d.Stock)
	if err != nil {
		return 0, fmt.Errorf("provision demo stock: %w", err)
	}

	for _, q := range d.Quantities {
		for _, f := range []struct {
			field partsstock.Field
			value int
		}{
			{partsstock.FieldRequired, q.Required},
			{partsstock.FieldActual, q.Actual},
		} {
			_, err := stock.SetPoolQuantity(ctx, partsstock.SetPoolQuantityRequest{
				ShopID:         q.ShopID,
				PoolKeyOrModel: q.Pool,
				PartsType:      q.PartsType,
				SupplierID:     q.SupplierID,
				Field:          f.field,
				NewAggregate:   f.value,
			})
			if err != nil {
				return created, fmt.Errorf("set %s %s %s: %w", q.ShopID, q.Pool, f.field, err)
			}
		}
	}
	return created, nil
}
