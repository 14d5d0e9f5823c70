package stock_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
)

func TestListMembersQuery(t *testing.T) {
	repo := NewStockRepo(nil)

	sql, args, err := repo.listMembersQuery("shop-1", "sup-1", "battery", []string{"A", "B"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, shop_id, model, parts_type, supplier_id, required_qty, actual_qty, version, updated_at "+
			"FROM parts_stock WHERE model IN ($1,$2) AND parts_type = $3 AND shop_id = $4 AND supplier_id = $5",
		sql)
	assert.Equal(t, []any{"A", "B", partspool.PartsType("battery"), "shop-1", "sup-1"}, args)
}

func TestUpdateQuantityQuery(t *testing.T) {
	repo := NewStockRepo(nil)
	recordID := id.New()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		field  partsstock.Field
		column string
	}{
		{partsstock.FieldActual, "actual_qty"},
		{partsstock.FieldRequired, "required_qty"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			sql, args, err := repo.updateQuantityQuery(recordID, tt.field, 4, 7, at).ToSql()
			require.NoError(t, err)
			assert.Equal(t,
				"UPDATE parts_stock SET "+tt.column+" = $1, version = version + 1, updated_at = $2 "+
					"WHERE id = $3 AND version = $4 RETURNING version",
				sql)
			require.Len(t, args, 4)
			assert.Equal(t, 4, args[0])
			assert.Equal(t, at, args[1])
			assert.Equal(t, 7, args[3])
		})
	}
}

func TestListQuery(t *testing.T) {
	repo := NewStockRepo(nil)

	sql, args, err := repo.listQuery(partsstock.ListFilter{}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, shop_id, model, parts_type, supplier_id, required_qty, actual_qty, version, updated_at "+
			"FROM parts_stock ORDER BY shop_id, model, parts_type, supplier_id",
		sql)
	assert.Empty(t, args)

	sql, args, err = repo.listQuery(partsstock.ListFilter{
		ShopIDs:    []string{"shop-1"},
		PartsTypes: []partspool.PartsType{"battery", "screen"},
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE shop_id IN ($1) AND parts_type IN ($2,$3)")
	assert.Len(t, args, 3)
}

func TestProvisionQuery(t *testing.T) {
	repo := NewStockRepo(nil)
	rec := partsstock.Record{ID: id.New(), ShopID: "s", Model: "A", PartsType: "battery", SupplierID: "x", Version: 1}

	sql, args, err := repo.provisionQuery(rec).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO parts_stock (id,shop_id,model,parts_type,supplier_id,required_qty,actual_qty,version,updated_at)")
	assert.Contains(t, sql, "ON CONFLICT (shop_id, model, parts_type, supplier_id) DO NOTHING")
	assert.Len(t, args, 9)
}
