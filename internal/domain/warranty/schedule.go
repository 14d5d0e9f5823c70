// Package warranty computes the staged post-sale warranty obligation.
//
// The warranty horizon is 360 days split into six 60-day stages. In stage i the
// customer may return the device for a (100 - 10*i)% refund, or have it repaired
// paying 10*i% of the repair cost. After the horizon any service is chargeable.
package warranty

import (
	"time"
)

const (
	StageDays   = 60
	StageCount  = 6
	HorizonDays = StageDays * StageCount

	refundStepPct = 10
)

// Stage describes one 60-day window.
type Stage struct {
	Index          int       `json:"index"`
	Deadline       time.Time `json:"deadline"`
	RefundRatePct  int       `json:"refundRatePct"`
	RepairSharePct int       `json:"repairSharePct"`
	IsCurrent      bool      `json:"isCurrent"`
	IsPast         bool      `json:"isPast"`
	IsUpcoming     bool      `json:"isUpcoming"`
}

// State is the warranty position of a sale at a given moment.
// Once expired, StageIndex equals StageCount and RefundRatePct / RepairSharePct are nil.
type State struct {
	SaleDate       time.Time `json:"saleDate"`
	AsOf           time.Time `json:"asOf"`
	DaysSinceSale  int       `json:"daysSinceSale"`
	StageIndex     int       `json:"stageIndex"`
	RefundRatePct  *int      `json:"refundRatePct"`
	RepairSharePct *int      `json:"repairSharePct"`
	Expired        bool      `json:"expired"`
	NotYetActive   bool      `json:"notYetActive"`
	Stages         []Stage   `json:"stages"`
}

// Evaluate computes the warranty state of a sale as of asOf.
//
// Days are whole calendar days in asOf's location. A sale dated after asOf is
// reported as stage 0 with NotYetActive set.
func Evaluate(saleDate, asOf time.Time) State {
	days := calendarDays(saleDate, asOf)

	st := State{
		SaleDate:      saleDate,
		AsOf:          asOf,
		DaysSinceSale: days,
		Expired:       days > HorizonDays,
		NotYetActive:  days < 0,
	}

	switch {
	case st.Expired:
		st.StageIndex = StageCount
	case days < 0:
		st.StageIndex = 0
	default:
		st.StageIndex = min(days/StageDays, StageCount-1)
	}

	if !st.Expired {
		refund, share := rates(st.StageIndex)
		st.RefundRatePct = &refund
		st.RepairSharePct = &share
	}

	st.Stages = make([]Stage, StageCount)
	for i := range st.Stages {
		refund, share := rates(i)
		st.Stages[i] = Stage{
			Index:          i,
			Deadline:       saleDate.AddDate(0, 0, (i+1)*StageDays),
			RefundRatePct:  refund,
			RepairSharePct: share,
			IsCurrent:      !st.Expired && i == st.StageIndex,
			IsPast:         st.Expired || i < st.StageIndex,
			IsUpcoming:     !st.Expired && i > st.StageIndex,
		}
	}

	return st
}

// CurrentStage returns the active stage, or nil once expired.
func (s State) CurrentStage() *Stage {
	for i := range s.Stages {
		if s.Stages[i].IsCurrent {
			return &s.Stages[i]
		}
	}
	return nil
}

func rates(stage int) (refundPct, repairSharePct int) {
	return 100 - stage*refundStepPct, stage * refundStepPct
}

func calendarDays(from, to time.Time) int {
	loc := to.Location()
	f := from.In(loc)
	a := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
