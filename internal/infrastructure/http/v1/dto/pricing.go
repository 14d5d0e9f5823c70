package dto

import (
	"repairdesk/internal/domain/pricing"
)

// QuoteRequest is the body of the buyback and resale quote endpoints.
type QuoteRequest struct {
	Model      string            `json:"model" binding:"required"`
	Storage    string            `json:"storage" binding:"required"`
	Conditions map[string]string `json:"conditions"`
}

// ToDomain converts the request to a service request.
func (r *QuoteRequest) ToDomain() pricing.QuoteRequest {
	conditions := make(pricing.ConditionSet, len(r.Conditions))
	for k, v := range r.Conditions {
		conditions[pricing.ConditionKind(k)] = pricing.Grade(v)
	}
	return pricing.QuoteRequest{
		Model:      r.Model,
		Storage:    r.Storage,
		Conditions: conditions,
	}
}

// LineItemResponse is one deduction line.
type LineItemResponse struct {
	Reason string `json:"reason"`
	Kind   string `json:"kind"`
	Grade  string `json:"grade"`
	Amount string `json:"amount"`
}

// QuoteResponse renders money as decimal strings.
type QuoteResponse struct {
	BasePrice      string             `json:"basePrice"`
	LineItems      []LineItemResponse `json:"lineItems"`
	TotalDeduction string             `json:"totalDeduction"`
	FinalPrice     string             `json:"finalPrice"`
	Floor          *string            `json:"floor,omitempty"`
	FloorApplied   bool               `json:"floorApplied"`
}

// FromQuote converts a domain quote to response DTO.
func FromQuote(q *pricing.Quote) QuoteResponse {
	resp := QuoteResponse{
		BasePrice:      q.BasePrice.String(),
		LineItems:      make([]LineItemResponse, len(q.LineItems)),
		TotalDeduction: q.TotalDeduction.String(),
		FinalPrice:     q.FinalPrice.String(),
		FloorApplied:   q.FloorApplied,
	}
	for i, li := range q.LineItems {
		resp.LineItems[i] = LineItemResponse{
			Reason: li.Reason,
			Kind:   string(li.Kind),
			Grade:  string(li.Grade),
			Amount: li.Amount.String(),
		}
	}
	if q.Floor != nil {
		floor := q.Floor.String()
		resp.Floor = &floor
	}
	return resp
}

// PricedItemResponse is returned after an inventory item's resale price is written.
type PricedItemResponse struct {
	ItemID string        `json:"itemId"`
	Quote  QuoteResponse `json:"quote"`
	Margin string        `json:"margin"`
}

// FromPricedItem converts the write-back result.
func FromPricedItem(p *pricing.PricedItem) PricedItemResponse {
	return PricedItemResponse{
		ItemID: p.ItemID.String(),
		Quote:  FromQuote(p.Quote),
		Margin: p.Margin.String(),
	}
}
