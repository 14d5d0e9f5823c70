// Package partsstock maintains required and actual parts quantities per
// (shop, model, parts-type, supplier), redistributing pooled quantities across
// the models that share a physical part.
package partsstock

import (
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/partspool"
)

// Field selects which quantity an edit targets.
type Field string

const (
	FieldRequired Field = "requiredQty"
	FieldActual   Field = "actualQty"
)

// Column returns the database column of the field.
func (f Field) Column() string {
	if f == FieldRequired {
		return "required_qty"
	}
	return "actual_qty"
}

// ParseField validates a field name coming from the API.
func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldRequired, FieldActual:
		return Field(s), nil
	}
	return "", apperror.NewValidation("field must be requiredQty or actualQty").WithDetail("field", s)
}

// Record is one parts stock row.
type Record struct {
	ID          id.ID               `db:"id" json:"id"`
	ShopID      string              `db:"shop_id" json:"shopId"`
	Model       string              `db:"model" json:"model"`
	PartsType   partspool.PartsType `db:"parts_type" json:"partsType"`
	SupplierID  string              `db:"supplier_id" json:"supplierId"`
	RequiredQty int                 `db:"required_qty" json:"requiredQty"`
	ActualQty   int                 `db:"actual_qty" json:"actualQty"`
	Version     int                 `db:"version" json:"version"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
}

// Get returns the value of field.
func (r *Record) Get(f Field) int {
	if f == FieldRequired {
		return r.RequiredQty
	}
	return r.ActualQty
}

// Set assigns the value of field.
func (r *Record) Set(f Field, v int) {
	if f == FieldRequired {
		r.RequiredQty = v
		return
	}
	r.ActualQty = v
}

// UpdatedRecord is the new value of one member after a redistribution.
type UpdatedRecord struct {
	ID       id.ID  `json:"id"`
	Model    string `json:"model"`
	Field    Field  `json:"field"`
	Previous int    `json:"previous"`
	Value    int    `json:"value"`
	Version  int    `json:"version"`
}

// PoolEdit is the outcome of SetPoolQuantity.
type PoolEdit struct {
	Unit      partspool.Unit  `json:"unit"`
	ShopID    string          `json:"shopId"`
	Supplier  string          `json:"supplierId"`
	Field     Field           `json:"field"`
	Aggregate int             `json:"aggregate"`
	Records   []UpdatedRecord `json:"records"`
}
