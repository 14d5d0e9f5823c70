package pricing

import (
	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/types"
)

// Calculate applies strategy to every matched condition and clips the result at floor.
//
// Deductions are independent and additive. The floor clips only the final price,
// never an individual line item.
func Calculate(base types.Money, conditions ConditionSet, floor *types.Money, strategy DeductionStrategy) (*Quote, error) {
	if base.IsNegative() {
		return nil, apperror.NewValidation("base price cannot be negative").
			WithDetail("basePrice", base.String())
	}
	if err := conditions.Validate(); err != nil {
		return nil, err
	}

	matched := conditions.Matched()
	quote := &Quote{
		BasePrice:      base,
		LineItems:      make([]LineItem, 0, len(matched)),
		TotalDeduction: types.Zero(),
	}

	for _, c := range matched {
		if !strategy.Supports(c.Kind) {
			return nil, apperror.NewValidation("condition is not priced by this price book").
				WithDetail("kind", string(c.Kind)).
				WithDetail("strategy", strategy.Name())
		}
		amount, err := strategy.Deduct(base, c)
		if err != nil {
			return nil, err
		}
		quote.LineItems = append(quote.LineItems, LineItem{
			Reason: c.Reason(),
			Kind:   c.Kind,
			Grade:  c.Grade,
			Amount: amount,
		})
		quote.TotalDeduction = quote.TotalDeduction.Add(amount)
	}

	quote.FinalPrice = base.Sub(quote.TotalDeduction)
	if floor != nil {
		f := *floor
		quote.Floor = &f
		if quote.FinalPrice.LessThan(f) {
			quote.FinalPrice = f
			quote.FloorApplied = true
		}
	}

	return quote, nil
}
