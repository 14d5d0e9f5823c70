package dto

import (
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/shortage"
)

// ShortageReportRequest holds the query of the shortage endpoints.
// List parameters may repeat or be comma separated.
type ShortageReportRequest struct {
	ShopIDs      []string `form:"shopId"`
	SupplierIDs  []string `form:"supplierId"`
	PartsTypes   []string `form:"partsType"`
	Cumulative   bool     `form:"cumulative"`
	OnlyShort    bool     `form:"onlyShort"`
	HiddenModels []string `form:"hiddenModel"`
}

// ToFilter converts the query to a report filter.
func (r *ShortageReportRequest) ToFilter() shortage.Filter {
	var pts []partspool.PartsType
	for _, pt := range splitList(r.PartsTypes) {
		pts = append(pts, partspool.PartsType(pt))
	}
	return shortage.Filter{
		ShopIDs:      splitList(r.ShopIDs),
		SupplierIDs:  splitList(r.SupplierIDs),
		PartsTypes:   pts,
		Cumulative:   r.Cumulative,
		OnlyShort:    r.OnlyShort,
		HiddenModels: splitList(r.HiddenModels),
	}
}

// ShortageTotalsResponse is the quantity block shared by rows and shop breakdowns.
type ShortageTotalsResponse struct {
	TotalRequired int  `json:"totalRequired"`
	TotalActual   int  `json:"totalActual"`
	Shortage      int  `json:"shortage"`
	IsShort       bool `json:"isShort"`
}

// ShopBreakdownResponse is one shop's share of a cumulative row.
type ShopBreakdownResponse struct {
	ShopID string `json:"shopId"`
	ShortageTotalsResponse
}

// ShortageRowResponse is one report row.
type ShortageRowResponse struct {
	ShopID     string   `json:"shopId,omitempty"`
	UnitKey    string   `json:"unitKey"`
	PartsType  string   `json:"partsType"`
	SupplierID string   `json:"supplierId,omitempty"`
	Shared     bool     `json:"shared"`
	Members    []string `json:"members"`
	ShortageTotalsResponse
	Shops []ShopBreakdownResponse `json:"shops,omitempty"`
}

// ShortageReportResponse represents the shortage report.
type ShortageReportResponse struct {
	Cumulative    bool                  `json:"cumulative"`
	Rows          []ShortageRowResponse `json:"rows"`
	ShortageCount int                   `json:"shortageCount"`
}

func fromTotals(t shortage.Totals) ShortageTotalsResponse {
	return ShortageTotalsResponse{
		TotalRequired: t.TotalRequired,
		TotalActual:   t.TotalActual,
		Shortage:      t.Shortage,
		IsShort:       t.IsShort,
	}
}

// FromShortageReport converts domain report to response DTO.
func FromShortageReport(r *shortage.Report) ShortageReportResponse {
	resp := ShortageReportResponse{
		Cumulative:    r.Cumulative,
		Rows:          make([]ShortageRowResponse, len(r.Rows)),
		ShortageCount: r.ShortageCount,
	}
	for i, row := range r.Rows {
		out := ShortageRowResponse{
			ShopID:                 row.ShopID,
			UnitKey:                row.UnitKey,
			PartsType:              string(row.PartsType),
			SupplierID:             row.SupplierID,
			Shared:                 row.Shared,
			Members:                row.Members,
			ShortageTotalsResponse: fromTotals(row.Totals),
		}
		for _, s := range row.Shops {
			out.Shops = append(out.Shops, ShopBreakdownResponse{
				ShopID:                 s.ShopID,
				ShortageTotalsResponse: fromTotals(s.Totals),
			})
		}
		resp.Rows[i] = out
	}
	return resp
}
