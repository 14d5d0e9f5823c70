package dto

import (
	"time"

	"repairdesk/internal/domain/warranty"
)

// WarrantyRequest holds the query of GET /warranty.
type WarrantyRequest struct {
	SaleDate string `form:"saleDate" binding:"required"`
	AsOf     string `form:"asOf"`
}

// WarrantyStageResponse is one stage of the refund schedule.
type WarrantyStageResponse struct {
	Index          int    `json:"index"`
	Deadline       string `json:"deadline"`
	RefundRatePct  int    `json:"refundRatePct"`
	RepairSharePct int    `json:"repairSharePct"`
	IsCurrent      bool   `json:"isCurrent"`
	IsPast         bool   `json:"isPast"`
	IsUpcoming     bool   `json:"isUpcoming"`
}

// WarrantyStateResponse renders dates as calendar days.
type WarrantyStateResponse struct {
	SaleDate       string                  `json:"saleDate"`
	AsOf           string                  `json:"asOf"`
	DaysSinceSale  int                     `json:"daysSinceSale"`
	StageIndex     int                     `json:"stageIndex"`
	RefundRatePct  *int                    `json:"refundRatePct"`
	RepairSharePct *int                    `json:"repairSharePct"`
	Expired        bool                    `json:"expired"`
	NotYetActive   bool                    `json:"notYetActive"`
	Stages         []WarrantyStageResponse `json:"stages"`
}

// FromWarrantyState converts domain state to response DTO.
func FromWarrantyState(s warranty.State) WarrantyStateResponse {
	resp := WarrantyStateResponse{
		SaleDate:       s.SaleDate.Format(dateLayout),
		AsOf:           s.AsOf.Format(time.RFC3339),
		DaysSinceSale:  s.DaysSinceSale,
		StageIndex:     s.StageIndex,
		RefundRatePct:  s.RefundRatePct,
		RepairSharePct: s.RepairSharePct,
		Expired:        s.Expired,
		NotYetActive:   s.NotYetActive,
		Stages:         make([]WarrantyStageResponse, len(s.Stages)),
	}
	for i, st := range s.Stages {
		resp.Stages[i] = WarrantyStageResponse{
			Index:          st.Index,
			Deadline:       st.Deadline.Format(dateLayout),
			RefundRatePct:  st.RefundRatePct,
			RepairSharePct: st.RepairSharePct,
			IsCurrent:      st.IsCurrent,
			IsPast:         st.IsPast,
			IsUpcoming:     st.IsUpcoming,
		}
	}
	return resp
}
