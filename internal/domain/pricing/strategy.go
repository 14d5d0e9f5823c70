package pricing

import (
	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/types"
)

// DeductionStrategy decides how much a matched condition takes off the base price.
type DeductionStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Supports reports whether the strategy prices the condition kind at all.
	Supports(kind ConditionKind) bool

	// Deduct returns the deduction for a matched condition.
	// A missing table entry is PriceDataMissing, never zero.
	Deduct(base types.Money, c Condition) (types.Money, error)
}

// RateStrategy prices buyback intake: floor(base * rate) per condition.
type RateStrategy struct {
	Table *DeductionTable
}

// Name implements DeductionStrategy.
func (s RateStrategy) Name() string { return "rate" }

// Supports implements DeductionStrategy. Buyback inspects every kind.
func (s RateStrategy) Supports(kind ConditionKind) bool {
	_, ok := kinds[kind]
	return ok
}

// Deduct implements DeductionStrategy.
func (s RateStrategy) Deduct(base types.Money, c Condition) (types.Money, error) {
	rate, ok := s.Table.Lookup(c)
	if !ok {
		return types.Zero(), missingRule("buyback deduction rate", s.Table, c)
	}
	return types.FloorMul(base, rate), nil
}

// resaleKinds is the reduced set checked when pricing a device for resale.
var resaleKinds = map[ConditionKind]bool{
	KindBattery:     true,
	KindCamera:      true,
	KindNetworkLock: true,
}

// FlatStrategy prices resale: a fixed amount per condition looked up in the table.
type FlatStrategy struct {
	Table *DeductionTable
}

// Name implements DeductionStrategy.
func (s FlatStrategy) Name() string { return "flat" }

// Supports implements DeductionStrategy.
func (s FlatStrategy) Supports(kind ConditionKind) bool {
	return resaleKinds[kind]
}

// Deduct implements DeductionStrategy.
func (s FlatStrategy) Deduct(_ types.Money, c Condition) (types.Money, error) {
	amount, ok := s.Table.Lookup(c)
	if !ok {
		return types.Zero(), missingRule("resale deduction amount", s.Table, c)
	}
	return amount, nil
}

func missingRule(table string, t *DeductionTable, c Condition) error {
	return apperror.NewPriceDataMissing(table, map[string]any{
		"model":   t.Model,
		"storage": t.Storage,
		"kind":    string(c.Kind),
		"grade":   string(c.Grade),
	})
}
