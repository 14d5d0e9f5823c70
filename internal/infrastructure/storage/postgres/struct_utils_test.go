package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"repairdesk/internal/domain/partsstock"
)

type embeddedRow struct {
	ID string `db:"id"`
}

type mockRow struct {
	embeddedRow
	Name    string `db:"name"`
	Skipped string `db:"-"`
	NoTag   string
}

func TestDBColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, DBColumns[mockRow]())
	assert.Equal(t, []string{"id", "name"}, DBColumns[*mockRow]())
}

func TestDBColumns_StockRecord(t *testing.T) {
	cols := DBColumns[partsstock.Record]()
	assert.Equal(t, []string{
		"id", "shop_id", "model", "parts_type", "supplier_id",
		"required_qty", "actual_qty", "version", "updated_at",
	}, cols)
}
