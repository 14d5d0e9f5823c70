// Package partspool describes which device models physically share repair parts.
package partspool

import (
	"context"
	"strings"

	"repairdesk/internal/core/apperror"
)

// DeviceModel is immutable reference data.
type DeviceModel struct {
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sortOrder"`
}

// PartsType is a repair part category, e.g. "battery", "screen", "camera".
type PartsType string

// Group is a set of models that share a stock of some parts-types.
// Parts-types not listed in SharedTypes stay model-specific even for members.
type Group struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Members     []string    `json:"members"` // declared order; drives remainder assignment
	SharedTypes []PartsType `json:"sharedTypes"`
}

// Shares reports whether the group pools the parts-type.
func (g *Group) Shares(pt PartsType) bool {
	for _, s := range g.SharedTypes {
		if s == pt {
			return true
		}
	}
	return false
}

// Contains reports whether model is a member.
func (g *Group) Contains(model string) bool {
	for _, m := range g.Members {
		if m == model {
			return true
		}
	}
	return false
}

// Validate implements entity-style self validation.
func (g *Group) Validate(_ context.Context) error {
	if strings.TrimSpace(g.Key) == "" {
		return apperror.NewValidation("group key is required").WithDetail("field", "key")
	}
	if len(g.Members) == 0 {
		return apperror.NewValidation("group has no members").WithDetail("group", g.Key)
	}
	seen := make(map[string]struct{}, len(g.Members))
	for _, m := range g.Members {
		if _, dup := seen[m]; dup {
			return apperror.NewValidation("duplicate group member").
				WithDetail("group", g.Key).
				WithDetail("model", m)
		}
		seen[m] = struct{}{}
	}
	return nil
}

// Repository loads pool configuration and model reference data.
type Repository interface {
	ListGroups(ctx context.Context) ([]Group, error)
	ListModels(ctx context.Context) ([]DeviceModel, error)
}
