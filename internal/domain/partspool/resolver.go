package partspool

import (
	"context"
	"fmt"

	"repairdesk/internal/core/apperror"
)

// Unit is the logical stock unit a (model, parts-type) pair belongs to:
// either a whole pool (Shared) or a single model.
type Unit struct {
	Key       string    `json:"key"` // group key for pools, model code otherwise
	PartsType PartsType `json:"partsType"`
	Members   []string  `json:"members"`
	Shared    bool      `json:"shared"`
}

// Resolver answers pool membership questions for a fixed group configuration.
type Resolver struct {
	groups  map[string]*Group
	byModel map[string]*Group
}

// NewResolver indexes groups. A model may belong to at most one group.
func NewResolver(ctx context.Context, groups []Group) (*Resolver, error) {
	r := &Resolver{
		groups:  make(map[string]*Group, len(groups)),
		byModel: make(map[string]*Group),
	}
	for i := range groups {
		g := &groups[i]
		if err := g.Validate(ctx); err != nil {
			return nil, err
		}
		if _, dup := r.groups[g.Key]; dup {
			return nil, apperror.NewValidation("duplicate group key").WithDetail("group", g.Key)
		}
		r.groups[g.Key] = g
		for _, m := range g.Members {
			if other, taken := r.byModel[m]; taken {
				return nil, apperror.NewValidation(fmt.Sprintf("model %s belongs to groups %s and %s", m, other.Key, g.Key)).
					WithDetail("model", m)
			}
			r.byModel[m] = g
		}
	}
	for key := range r.groups {
		if _, clash := r.byModel[key]; clash {
			return nil, apperror.NewValidation("group key collides with a model code").WithDetail("group", key)
		}
	}
	return r, nil
}

// ResolveGroup returns the group of model. Ungrouped and unknown models
// return false; they are never an error.
func (r *Resolver) ResolveGroup(model string) (*Group, bool) {
	g, ok := r.byModel[model]
	return g, ok
}

// Group returns a group by key.
func (r *Resolver) Group(key string) (*Group, bool) {
	g, ok := r.groups[key]
	return g, ok
}

// IsShared reports whether model draws partsType from a pool.
func (r *Resolver) IsShared(model string, pt PartsType) bool {
	g, ok := r.byModel[model]
	return ok && g.Shares(pt)
}

// UnitOf returns the stock unit of a (model, parts-type) pair.
func (r *Resolver) UnitOf(model string, pt PartsType) Unit {
	if g, ok := r.byModel[model]; ok && g.Shares(pt) {
		return Unit{Key: g.Key, PartsType: pt, Members: g.Members, Shared: true}
	}
	return Unit{Key: model, PartsType: pt, Members: []string{model}}
}

// Resolve turns a user-supplied pool key or model code into a stock unit.
//
// A group key is only valid for parts-types the group shares. A model code
// resolves to its pool when the parts-type is shared, otherwise to itself.
func (r *Resolver) Resolve(keyOrModel string, pt PartsType) (Unit, error) {
	if g, ok := r.groups[keyOrModel]; ok {
		if !g.Shares(pt) {
			return Unit{}, apperror.NewValidation("parts type is not shared by this pool; edit a member model instead").
				WithDetail("pool", g.Key).
				WithDetail("partsType", string(pt))
		}
		return Unit{Key: g.Key, PartsType: pt, Members: g.Members, Shared: true}, nil
	}
	return r.UnitOf(keyOrModel, pt), nil
}
