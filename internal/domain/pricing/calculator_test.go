package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/types"
)

func strPtr(s string) *string { return &s }

func moneyPtr(v int64) *types.Money {
	m := types.NewMoney(v)
	return &m
}

func buybackTable(rules ...DeductionRule) *DeductionTable {
	return NewDeductionTable(DomainBuyback, "IP13", "128GB", rules)
}

func rateRule(kind ConditionKind, grade Grade, pct int64) DeductionRule {
	return DeductionRule{Domain: DomainBuyback, Model: "IP13", Kind: kind, Grade: grade, Value: types.NewRatePercent(pct)}
}

func TestCalculate_RateStrategyCases(t *testing.T) {
	conditions := ConditionSet{KindBattery: BatteryPoor, KindNetworkLock: LockTriangle}

	tests := []struct {
		name         string
		base         int64
		pct          int64
		floor        *types.Money
		wantDeduct   int64
		wantFinal    int64
		floorApplied bool
	}{
		{name: "deductions within floor", base: 50_000, pct: 10, floor: moneyPtr(20_000), wantDeduct: 10_000, wantFinal: 40_000},
		{name: "result equals floor", base: 10_000, pct: 10, floor: moneyPtr(8_000), wantDeduct: 2_000, wantFinal: 8_000},
		{name: "floor binding", base: 5_000, pct: 20, floor: moneyPtr(8_000), wantDeduct: 2_000, wantFinal: 8_000, floorApplied: true},
		{name: "no floor", base: 5_000, pct: 20, wantDeduct: 2_000, wantFinal: 3_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buybackTable(
				rateRule(KindBattery, BatteryPoor, tt.pct),
				rateRule(KindNetworkLock, LockTriangle, tt.pct),
			)

			q, err := Calculate(types.NewMoney(tt.base), conditions, tt.floor, RateStrategy{Table: table})
			require.NoError(t, err)

			assert.True(t, types.NewMoney(tt.wantDeduct).Equal(q.TotalDeduction), "total deduction %s", q.TotalDeduction)
			assert.True(t, types.NewMoney(tt.wantFinal).Equal(q.FinalPrice), "final price %s", q.FinalPrice)
			assert.Equal(t, tt.floorApplied, q.FloorApplied)
			require.Len(t, q.LineItems, 2)
			assert.Equal(t, KindBattery, q.LineItems[0].Kind)
			assert.Equal(t, KindNetworkLock, q.LineItems[1].Kind)
		})
	}
}

func TestCalculate_RateIsFloored(t *testing.T) {
	table := buybackTable(DeductionRule{
		Domain: DomainBuyback, Model: "IP13", Kind: KindCamera, Grade: CameraMinor,
		Value: types.MustMoney("0.07"),
	})

	q, err := Calculate(types.NewMoney(12_345), ConditionSet{KindCamera: CameraMinor}, nil, RateStrategy{Table: table})
	require.NoError(t, err)

	// 12345 * 0.07 = 864.15
	assert.Equal(t, "864", q.TotalDeduction.String())
	assert.Equal(t, "11481", q.FinalPrice.String())
}

func TestCalculate_FloorInvariant(t *testing.T) {
	table := buybackTable(
		rateRule(KindBattery, BatteryFair, 5),
		rateRule(KindBattery, BatteryPoor, 15),
		rateRule(KindCamera, CameraMajor, 30),
		rateRule(KindNetworkLock, LockCross, 50),
		rateRule(KindScreenCrack, ScreenCracked, 40),
		rateRule(KindServiceIndicator, IndicatorShown, 10),
	)
	sets := []ConditionSet{
		{},
		{KindBattery: BatteryFair},
		{KindBattery: BatteryPoor, KindCamera: CameraMajor},
		{KindNetworkLock: LockCross, KindScreenCrack: ScreenCracked, KindServiceIndicator: IndicatorShown, KindCamera: CameraMajor},
	}

	for _, base := range []int64{0, 1_000, 9_999, 50_000, 123_456} {
		for _, floorValue := range []int64{0, 3_000, 20_000} {
			for _, set := range sets {
				floor := types.NewMoney(floorValue)
				q, err := Calculate(types.NewMoney(base), set, &floor, RateStrategy{Table: table})
				require.NoError(t, err)

				raw := types.NewMoney(base).Sub(q.TotalDeduction)
				want := raw
				if raw.LessThan(floor) {
					want = floor
				}
				assert.True(t, q.FinalPrice.GreaterThanOrEqual(floor))
				assert.True(t, want.Equal(q.FinalPrice), "base=%d floor=%d set=%v", base, floorValue, set)
			}
		}
	}
}

func TestCalculate_Additivity(t *testing.T) {
	table := buybackTable(
		rateRule(KindBattery, BatteryPoor, 10),
		rateRule(KindCamera, CameraMinor, 5),
		rateRule(KindScreenCrack, ScreenCracked, 25),
	)
	base := types.NewMoney(40_000)
	strategy := RateStrategy{Table: table}

	combined, err := Calculate(base, ConditionSet{KindBattery: BatteryPoor, KindCamera: CameraMinor, KindScreenCrack: ScreenCracked}, nil, strategy)
	require.NoError(t, err)

	sum := types.Zero()
	for _, set := range []ConditionSet{{KindBattery: BatteryPoor}, {KindCamera: CameraMinor}, {KindScreenCrack: ScreenCracked}} {
		q, err := Calculate(base, set, nil, strategy)
		require.NoError(t, err)
		sum = sum.Add(q.TotalDeduction)
	}
	assert.True(t, sum.Equal(combined.TotalDeduction))

	lineSum := types.Zero()
	for _, li := range combined.LineItems {
		lineSum = lineSum.Add(li.Amount)
	}
	assert.True(t, lineSum.Equal(combined.TotalDeduction))

	// Adding pristine grades changes nothing and needs no table entry.
	withPristine, err := Calculate(base, ConditionSet{
		KindBattery: BatteryPoor, KindCamera: CameraMinor, KindScreenCrack: ScreenCracked,
		KindNetworkLock: LockCircle, KindServiceIndicator: IndicatorNone,
	}, nil, strategy)
	require.NoError(t, err)
	assert.True(t, combined.FinalPrice.Equal(withPristine.FinalPrice))
	assert.Len(t, withPristine.LineItems, 3)
}

func TestCalculate_MissingRuleFails(t *testing.T) {
	table := buybackTable(rateRule(KindBattery, BatteryPoor, 10))

	_, err := Calculate(types.NewMoney(30_000), ConditionSet{KindBattery: BatteryPoor, KindCamera: CameraMajor}, nil, RateStrategy{Table: table})
	require.Error(t, err)
	assert.True(t, apperror.IsPriceDataMissing(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "camera", appErr.Details["kind"])
}

func TestCalculate_FlatStrategy(t *testing.T) {
	rules := []DeductionRule{
		{Domain: DomainResale, Model: "IP13", Kind: KindBattery, Grade: BatteryFair, Value: types.NewMoney(3_000)},
		{Domain: DomainResale, Model: "IP13", Storage: strPtr("128GB"), Kind: KindBattery, Grade: BatteryFair, Value: types.NewMoney(2_500)},
		{Domain: DomainResale, Model: "IP13", Kind: KindNetworkLock, Grade: LockTriangle, Value: types.NewMoney(4_000)},
	}

	t.Run("storage specific rule wins", func(t *testing.T) {
		table := NewDeductionTable(DomainResale, "IP13", "128GB", rules)
		q, err := Calculate(types.NewMoney(60_000), ConditionSet{KindBattery: BatteryFair, KindNetworkLock: LockTriangle}, nil, FlatStrategy{Table: table})
		require.NoError(t, err)
		assert.Equal(t, "6500", q.TotalDeduction.String())
		assert.Equal(t, "53500", q.FinalPrice.String())
	})

	t.Run("model wide fallback", func(t *testing.T) {
		table := NewDeductionTable(DomainResale, "IP13", "256GB", rules)
		q, err := Calculate(types.NewMoney(60_000), ConditionSet{KindBattery: BatteryFair}, nil, FlatStrategy{Table: table})
		require.NoError(t, err)
		assert.Equal(t, "3000", q.TotalDeduction.String())
	})

	t.Run("buyback-only condition rejected", func(t *testing.T) {
		table := NewDeductionTable(DomainResale, "IP13", "128GB", rules)
		_, err := Calculate(types.NewMoney(60_000), ConditionSet{KindScreenCrack: ScreenCracked}, nil, FlatStrategy{Table: table})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	})

	t.Run("buyback rules ignored", func(t *testing.T) {
		mixed := append([]DeductionRule{rateRule(KindCamera, CameraMinor, 10)}, rules...)
		table := NewDeductionTable(DomainResale, "IP13", "128GB", mixed)
		_, err := Calculate(types.NewMoney(60_000), ConditionSet{KindCamera: CameraMinor}, nil, FlatStrategy{Table: table})
		assert.True(t, apperror.IsPriceDataMissing(err))
	})
}

func TestCalculate_Validation(t *testing.T) {
	table := buybackTable()

	_, err := Calculate(types.NewMoney(-1), nil, nil, RateStrategy{Table: table})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = Calculate(types.NewMoney(100), ConditionSet{"waterDamage": "yes"}, nil, RateStrategy{Table: table})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = Calculate(types.NewMoney(100), ConditionSet{KindBattery: "50%"}, nil, RateStrategy{Table: table})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestQuote_MarginAgainst(t *testing.T) {
	q := &Quote{FinalPrice: types.NewMoney(8_000)}
	assert.Equal(t, "-2000", q.MarginAgainst(types.NewMoney(10_000)).String())
}
