package dto

import (
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
)

// SetPoolQuantityRequest is the body of PUT /parts-stock/pool-quantity.
// Pool takes either a pool group key or a model code.
type SetPoolQuantityRequest struct {
	ShopID     string `json:"shopId" binding:"required"`
	Pool       string `json:"pool" binding:"required"`
	PartsType  string `json:"partsType" binding:"required"`
	SupplierID string `json:"supplierId" binding:"required"`
	Field      string `json:"field" binding:"required"`
	Aggregate  *int   `json:"aggregate" binding:"required"`
}

// ToDomain converts the request to a service request.
func (r *SetPoolQuantityRequest) ToDomain() partsstock.SetPoolQuantityRequest {
	return partsstock.SetPoolQuantityRequest{
		ShopID:         r.ShopID,
		PoolKeyOrModel: r.Pool,
		PartsType:      partspool.PartsType(r.PartsType),
		SupplierID:     r.SupplierID,
		Field:          partsstock.Field(r.Field),
		NewAggregate:   *r.Aggregate,
	}
}

// UpdatedRecordResponse is one member record written by a pool edit.
type UpdatedRecordResponse struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Previous int    `json:"previous"`
	Value    int    `json:"value"`
	Version  int    `json:"version"`
}

// PoolEditResponse describes a completed pool edit.
type PoolEditResponse struct {
	UnitKey    string                  `json:"unitKey"`
	Shared     bool                    `json:"shared"`
	Members    []string                `json:"members"`
	ShopID     string                  `json:"shopId"`
	SupplierID string                  `json:"supplierId"`
	PartsType  string                  `json:"partsType"`
	Field      string                  `json:"field"`
	Aggregate  int                     `json:"aggregate"`
	Records    []UpdatedRecordResponse `json:"records"`
}

// FromPoolEdit converts a domain edit to response DTO.
func FromPoolEdit(e *partsstock.PoolEdit) PoolEditResponse {
	resp := PoolEditResponse{
		UnitKey:    e.Unit.Key,
		Shared:     e.Unit.Shared,
		Members:    e.Unit.Members,
		ShopID:     e.ShopID,
		SupplierID: e.Supplier,
		PartsType:  string(e.Unit.PartsType),
		Field:      string(e.Field),
		Aggregate:  e.Aggregate,
		Records:    make([]UpdatedRecordResponse, len(e.Records)),
	}
	for i, r := range e.Records {
		resp.Records[i] = UpdatedRecordResponse{
			ID:       r.ID.String(),
			Model:    r.Model,
			Previous: r.Previous,
			Value:    r.Value,
			Version:  r.Version,
		}
	}
	return resp
}

// ProvisionRequest is the body of POST /parts-stock/provision.
type ProvisionRequest struct {
	ShopIDs     []string `json:"shopIds" binding:"required,min=1"`
	Models      []string `json:"models" binding:"required,min=1"`
	PartsTypes  []string `json:"partsTypes" binding:"required,min=1"`
	SupplierIDs []string `json:"supplierIds" binding:"required,min=1"`
}

// ToDomain converts the request to a service request.
func (r *ProvisionRequest) ToDomain() partsstock.ProvisionRequest {
	pts := make([]partspool.PartsType, len(r.PartsTypes))
	for i, pt := range r.PartsTypes {
		pts[i] = partspool.PartsType(pt)
	}
	return partsstock.ProvisionRequest{
		ShopIDs:     r.ShopIDs,
		Models:      r.Models,
		PartsTypes:  pts,
		SupplierIDs: r.SupplierIDs,
	}
}

// ProvisionResponse reports how many records were created.
type ProvisionResponse struct {
	Created int `json:"created"`
}
