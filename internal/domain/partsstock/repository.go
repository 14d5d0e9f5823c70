package partsstock

import (
	"context"
	"time"

	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/partspool"
)

// Repository defines persistence for parts stock records.
type Repository interface {
	// ListMembers returns the records of models for one (shop, supplier, parts-type).
	ListMembers(ctx context.Context, shopID, supplierID string, partsType partspool.PartsType, models []string) ([]Record, error)

	// UpdateQuantity writes one field if the record still has expectedVersion.
	// Returns the new version, or CONCURRENT_MODIFICATION when the version moved.
	UpdateQuantity(ctx context.Context, recordID id.ID, field Field, value, expectedVersion int) (int, error)

	// List returns records matching filter (used by shortage reports).
	List(ctx context.Context, filter ListFilter) ([]Record, error)

	// Provision inserts records that do not exist yet and returns how many were created.
	Provision(ctx context.Context, records []Record) (int, error)
}

// ListFilter narrows List. Empty slices mean "any".
type ListFilter struct {
	ShopIDs     []string
	SupplierIDs []string
	PartsTypes  []partspool.PartsType
	Models      []string
}

// Redistribution is the audit payload of one pool edit.
type Redistribution struct {
	PoolKey    string              `json:"poolKey"`
	ShopID     string              `json:"shopId"`
	SupplierID string              `json:"supplierId"`
	PartsType  partspool.PartsType `json:"partsType"`
	Field      Field               `json:"field"`
	Aggregate  int                 `json:"aggregate"`
	Records    []UpdatedRecord     `json:"records"`
	StaffID    string              `json:"staffId,omitempty"`
	At         time.Time           `json:"at"`
}

// Auditor records completed redistributions. It runs inside the edit transaction.
type Auditor interface {
	LogRedistribution(ctx context.Context, r Redistribution) error
}

// PoolLocker serialises edits of one pool across requests (and processes,
// for distributed implementations).
type PoolLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
