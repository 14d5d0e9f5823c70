package shortage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
)

func rec(shop, model string, pt partspool.PartsType, supplier string, required, actual int) partsstock.Record {
	return partsstock.Record{
		ShopID:      shop,
		Model:       model,
		PartsType:   pt,
		SupplierID:  supplier,
		RequiredQty: required,
		ActualQty:   actual,
	}
}

func testResolver(t *testing.T) *partspool.Resolver {
	t.Helper()
	r, err := partspool.NewResolver(context.Background(), []partspool.Group{
		{Key: "P", Members: []string{"A", "B"}, SharedTypes: []partspool.PartsType{"battery"}},
	})
	require.NoError(t, err)
	return r
}

var testOrder = map[string]int{"A": 10, "B": 20, "C": 5, "D": 30}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		records []partsstock.Record
		want    Totals
	}{
		{
			name: "pool short by three",
			records: []partsstock.Record{
				rec("s1", "A", "battery", "x", 5, 3),
				rec("s1", "B", "battery", "x", 5, 4),
			},
			want: Totals{TotalRequired: 10, TotalActual: 7, Shortage: 3, IsShort: true},
		},
		{
			name: "surplus is not negative shortage",
			records: []partsstock.Record{
				rec("s1", "A", "battery", "x", 2, 6),
			},
			want: Totals{TotalRequired: 2, TotalActual: 6},
		},
		{
			name: "exactly stocked",
			records: []partsstock.Record{
				rec("s1", "A", "battery", "x", 4, 4),
			},
			want: Totals{TotalRequired: 4, TotalActual: 4},
		},
		{
			name: "empty",
			want: Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.records))
		})
	}
}

func TestEvaluate_PerShop(t *testing.T) {
	records := []partsstock.Record{
		rec("s1", "A", "battery", "x", 5, 3),
		rec("s1", "B", "battery", "x", 5, 4),
		rec("s1", "A", "screen", "x", 1, 1),
		rec("s1", "C", "battery", "x", 2, 0),
		rec("s2", "A", "battery", "x", 1, 1),
	}

	report := Evaluate(records, testResolver(t), testOrder, Filter{ShopIDs: []string{"s1"}})

	require.Len(t, report.Rows, 3)
	// C (order 5) first; pool P sorts at its first member A (order 10)
	assert.Equal(t, "C", report.Rows[0].UnitKey)

	// A's screen stays model specific
	assert.Equal(t, "A", report.Rows[1].UnitKey)
	assert.Equal(t, partspool.PartsType("screen"), report.Rows[1].PartsType)
	assert.False(t, report.Rows[1].Shared)

	assert.Equal(t, "P", report.Rows[2].UnitKey)
	assert.Equal(t, partspool.PartsType("battery"), report.Rows[2].PartsType)
	assert.True(t, report.Rows[2].Shared)
	assert.Equal(t, Totals{TotalRequired: 10, TotalActual: 7, Shortage: 3, IsShort: true}, report.Rows[2].Totals)

	assert.Equal(t, 2, report.ShortageCount)
	for _, row := range report.Rows {
		assert.Equal(t, "s1", row.ShopID)
		assert.Equal(t, row.IsShort, row.TotalActual < row.TotalRequired)
	}
}

func TestEvaluate_CumulativeIsSumOfShops(t *testing.T) {
	records := []partsstock.Record{
		rec("s1", "A", "battery", "x", 5, 3),
		rec("s1", "B", "battery", "x", 5, 4),
		rec("s2", "A", "battery", "x", 2, 4),
		rec("s2", "B", "battery", "x", 2, 0),
		rec("s1", "A", "battery", "y", 1, 0),
	}
	resolver := testResolver(t)

	cumulative := Evaluate(records, resolver, testOrder, Filter{Cumulative: true})
	perShop := Evaluate(records, resolver, testOrder, Filter{SupplierIDs: []string{"x"}})

	require.Len(t, cumulative.Rows, 2)
	row := cumulative.Rows[0]
	assert.Equal(t, "x", row.SupplierID)
	assert.Empty(t, row.ShopID)
	assert.Equal(t, 14, row.TotalRequired)
	assert.Equal(t, 11, row.TotalActual)
	assert.Equal(t, 3, row.Shortage)

	require.Len(t, row.Shops, 2)
	var req, act int
	for i, shop := range row.Shops {
		assert.Equal(t, perShop.Rows[i].ShopID, shop.ShopID)
		assert.Equal(t, perShop.Rows[i].Totals, shop.Totals)
		req += shop.TotalRequired
		act += shop.TotalActual
	}
	assert.Equal(t, row.TotalRequired, req)
	assert.Equal(t, row.TotalActual, act)

	assert.Equal(t, "y", cumulative.Rows[1].SupplierID)
	assert.Equal(t, 2, cumulative.ShortageCount)
}

func TestEvaluate_HiddenModels(t *testing.T) {
	records := []partsstock.Record{
		rec("s1", "A", "battery", "x", 5, 3),
		rec("s1", "B", "battery", "x", 5, 4),
		rec("s1", "C", "battery", "x", 2, 0),
	}

	report := Evaluate(records, testResolver(t), testOrder, Filter{HiddenModels: []string{"B", "C"}})

	// C is hidden; hiding pool member B leaves the pool total intact
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "P", report.Rows[0].UnitKey)
	assert.Equal(t, 10, report.Rows[0].TotalRequired)
	assert.Equal(t, 7, report.Rows[0].TotalActual)
	assert.Equal(t, 2, report.ShortageCount)
}

func TestEvaluate_Filters(t *testing.T) {
	records := []partsstock.Record{
		rec("s1", "A", "battery", "x", 5, 5),
		rec("s1", "C", "battery", "x", 2, 0),
		rec("s1", "C", "screen", "x", 2, 0),
		rec("s1", "D", "battery", "z", 2, 0),
	}
	resolver := testResolver(t)

	onlyShort := Evaluate(records, resolver, testOrder, Filter{OnlyShort: true, SupplierIDs: []string{"x"}})
	require.Len(t, onlyShort.Rows, 2)
	for _, row := range onlyShort.Rows {
		assert.True(t, row.IsShort)
	}
	assert.Equal(t, 2, onlyShort.ShortageCount)

	screens := Evaluate(records, resolver, testOrder, Filter{PartsTypes: []partspool.PartsType{"screen"}})
	require.Len(t, screens.Rows, 1)
	assert.Equal(t, "C", screens.Rows[0].UnitKey)
}

func TestEvaluate_UnknownModelIsUnshared(t *testing.T) {
	records := []partsstock.Record{rec("s1", "legacy", "battery", "x", 1, 0)}

	report := Evaluate(records, testResolver(t), testOrder, Filter{})
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "legacy", report.Rows[0].UnitKey)
	assert.Equal(t, []string{"legacy"}, report.Rows[0].Members)
	assert.False(t, report.Rows[0].Shared)
}
