package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPristine(t *testing.T) {
	tests := []struct {
		kind  ConditionKind
		grade Grade
		want  bool
	}{
		{KindBattery, BatteryHealthy, true},
		{KindBattery, BatteryPoor, false},
		{KindNetworkLock, LockCircle, true},
		{KindScreenCrack, ScreenCracked, false},
		{"waterDamage", "none", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPristine(tt.kind, tt.grade), "%s/%s", tt.kind, tt.grade)
	}
}

func TestConditionSet_MatchedSkipsPristineInKindOrder(t *testing.T) {
	set := ConditionSet{
		KindServiceIndicator: IndicatorShown,
		KindBattery:          BatteryHealthy,
		KindScreenCrack:      ScreenCracked,
		KindCamera:           CameraMinor,
		KindNetworkLock:      "",
	}

	assert.Equal(t, []Condition{
		{Kind: KindCamera, Grade: CameraMinor},
		{Kind: KindScreenCrack, Grade: ScreenCracked},
		{Kind: KindServiceIndicator, Grade: IndicatorShown},
	}, set.Matched())
}
