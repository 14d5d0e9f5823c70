// Package pricing turns a device's physical condition into a buyback offer or
// a resale price using a base price, condition deductions and an optional floor.
package pricing

import (
	"time"

	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

// Domain separates the two price books. Their deduction semantics differ and
// must never be mixed: buyback rules carry rates, resale rules carry amounts.
type Domain string

const (
	DomainBuyback Domain = "buyback"
	DomainResale  Domain = "resale"
)

// DeductionRule is one row of the condition deduction table.
// Storage nil means the rule applies to every storage size of the model.
type DeductionRule struct {
	Domain  Domain        `db:"domain" json:"domain"`
	Model   string        `db:"model" json:"model"`
	Storage *string       `db:"storage" json:"storage,omitempty"`
	Kind    ConditionKind `db:"kind" json:"kind"`
	Grade   Grade         `db:"grade" json:"grade"`
	// Value is a rate (0.10) for buyback rules and a yen amount for resale rules.
	Value types.Money `db:"value" json:"value"`
}

// GuaranteePrice is the minimum buyback offer for a model/storage.
type GuaranteePrice struct {
	Model   string      `db:"model" json:"model"`
	Storage string      `db:"storage" json:"storage"`
	Price   types.Money `db:"price" json:"price"`
}

// BasePrice is the undamaged price of a model/storage in one price book.
type BasePrice struct {
	Domain  Domain      `db:"domain" json:"domain"`
	Model   string      `db:"model" json:"model"`
	Storage string      `db:"storage" json:"storage"`
	Price   types.Money `db:"price" json:"price"`
}

// LineItem is one matched condition and the amount it takes off the base price.
type LineItem struct {
	Reason string        `json:"reason"`
	Kind   ConditionKind `json:"kind"`
	Grade  Grade         `json:"grade"`
	Amount types.Money   `json:"amount"`
}

// Quote is the result of a price calculation.
type Quote struct {
	BasePrice      types.Money  `json:"basePrice"`
	LineItems      []LineItem   `json:"lineItems"`
	TotalDeduction types.Money  `json:"totalDeduction"`
	FinalPrice     types.Money  `json:"finalPrice"`
	Floor          *types.Money `json:"floor,omitempty"`
	FloorApplied   bool         `json:"floorApplied"`
}

// MarginAgainst returns FinalPrice minus cost. The result may be negative when
// the floor lifts the price above what the device is worth.
func (q *Quote) MarginAgainst(cost types.Money) types.Money {
	return q.FinalPrice.Sub(cost)
}

// InventoryItem is a device held for resale. Only the fields pricing needs are mapped.
type InventoryItem struct {
	ID          id.ID        `db:"id" json:"id"`
	Model       string       `db:"model" json:"model"`
	Storage     string       `db:"storage" json:"storage"`
	Conditions  ConditionSet `db:"conditions" json:"conditions"`
	Cost        types.Money  `db:"cost" json:"cost"`
	ResalePrice *types.Money `db:"resale_price" json:"resalePrice,omitempty"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}
