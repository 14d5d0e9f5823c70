package dto

import (
	"repairdesk/internal/domain/partspool"
)

// PartsGroupResponse is one pool group configuration.
type PartsGroupResponse struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Members     []string `json:"members"`
	SharedTypes []string `json:"sharedTypes"`
}

// FromPartsGroups converts pool groups to response DTOs.
func FromPartsGroups(groups []partspool.Group) []PartsGroupResponse {
	out := make([]PartsGroupResponse, len(groups))
	for i, g := range groups {
		types := make([]string, len(g.SharedTypes))
		for j, pt := range g.SharedTypes {
			types[j] = string(pt)
		}
		out[i] = PartsGroupResponse{
			Key:         g.Key,
			Name:        g.Name,
			Members:     g.Members,
			SharedTypes: types,
		}
	}
	return out
}
