package pricing

import (
	"fmt"
	"sort"

	"repairdesk/internal/core/apperror"
)

// ConditionKind is one of the fixed physical-condition checks done at the counter.
type ConditionKind string

const (
	KindBattery          ConditionKind = "battery"
	KindCamera           ConditionKind = "camera"
	KindNetworkLock      ConditionKind = "networkLock"
	KindScreenCrack      ConditionKind = "screenCrack"
	KindServiceIndicator ConditionKind = "serviceIndicator"
)

// Grade is the observed value of a condition check.
type Grade string

const (
	BatteryHealthy Grade = "90+"   // 90% and above
	BatteryFair    Grade = "80-89" // 80–89%
	BatteryPoor    Grade = "<80"   // below 80%

	CameraClean Grade = "none"
	CameraMinor Grade = "minor"
	CameraMajor Grade = "major"

	// Carrier restriction marks: circle = clean, triangle = pending payments, cross = blacklisted.
	LockCircle   Grade = "circle"
	LockTriangle Grade = "triangle"
	LockCross    Grade = "cross"

	ScreenIntact  Grade = "none"
	ScreenCracked Grade = "cracked"

	IndicatorNone  Grade = "none"
	IndicatorShown Grade = "shown"
)

type kindSpec struct {
	pristine Grade
	grades   []Grade
	label    string
	order    int
}

var kinds = map[ConditionKind]kindSpec{
	KindBattery:          {pristine: BatteryHealthy, grades: []Grade{BatteryHealthy, BatteryFair, BatteryPoor}, label: "battery health", order: 0},
	KindCamera:           {pristine: CameraClean, grades: []Grade{CameraClean, CameraMinor, CameraMajor}, label: "camera blemish", order: 1},
	KindNetworkLock:      {pristine: LockCircle, grades: []Grade{LockCircle, LockTriangle, LockCross}, label: "network lock", order: 2},
	KindScreenCrack:      {pristine: ScreenIntact, grades: []Grade{ScreenIntact, ScreenCracked}, label: "screen", order: 3},
	KindServiceIndicator: {pristine: IndicatorNone, grades: []Grade{IndicatorNone, IndicatorShown}, label: "service indicator", order: 4},
}

// Condition is a single (kind, grade) observation.
type Condition struct {
	Kind  ConditionKind `json:"kind"`
	Grade Grade         `json:"grade"`
}

// Reason renders the condition for quote line items.
func (c Condition) Reason() string {
	return fmt.Sprintf("%s %s", kinds[c.Kind].label, c.Grade)
}

// ConditionSet maps each inspected kind to its grade. Kinds not present are
// treated as pristine.
type ConditionSet map[ConditionKind]Grade

// Validate checks that every kind and grade belongs to the closed set.
func (s ConditionSet) Validate() error {
	for kind, grade := range s {
		def, ok := kinds[kind]
		if !ok {
			return apperror.NewValidation("unknown condition kind").
				WithDetail("kind", string(kind))
		}
		if !containsGrade(def.grades, grade) {
			return apperror.NewValidation("unknown condition grade").
				WithDetail("kind", string(kind)).
				WithDetail("grade", string(grade))
		}
	}
	return nil
}

// Matched returns the non-pristine conditions in a fixed kind order so that
// line items always come out in the same sequence.
func (s ConditionSet) Matched() []Condition {
	out := make([]Condition, 0, len(s))
	for kind, grade := range s {
		if grade == "" || IsPristine(kind, grade) {
			continue
		}
		out = append(out, Condition{Kind: kind, Grade: grade})
	}
	sort.Slice(out, func(i, j int) bool {
		return kinds[out[i].Kind].order < kinds[out[j].Kind].order
	})
	return out
}

// IsPristine reports whether grade is the no-deduction grade of kind.
func IsPristine(kind ConditionKind, grade Grade) bool {
	def, ok := kinds[kind]
	return ok && def.pristine == grade
}

func containsGrade(grades []Grade, g Grade) bool {
	for _, v := range grades {
		if v == g {
			return true
		}
	}
	return false
}
