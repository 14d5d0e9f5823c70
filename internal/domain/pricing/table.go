package pricing

import (
	"repairdesk/internal/core/types"
)

type ruleKey struct {
	kind  ConditionKind
	grade Grade
}

// DeductionTable is the per-condition lookup for one model/storage.
// Storage-specific rules win over model-wide ones.
type DeductionTable struct {
	Model   string
	Storage string

	exact    map[ruleKey]types.Money
	fallback map[ruleKey]types.Money
}

// NewDeductionTable indexes rules for model/storage. Rules for other models,
// other storage sizes, or another domain are ignored.
func NewDeductionTable(domain Domain, model, storage string, rules []DeductionRule) *DeductionTable {
	t := &DeductionTable{
		Model:    model,
		Storage:  storage,
		exact:    make(map[ruleKey]types.Money),
		fallback: make(map[ruleKey]types.Money),
	}
	for _, r := range rules {
		if r.Domain != domain || r.Model != model {
			continue
		}
		k := ruleKey{kind: r.Kind, grade: r.Grade}
		switch {
		case r.Storage == nil:
			t.fallback[k] = r.Value
		case *r.Storage == storage:
			t.exact[k] = r.Value
		}
	}
	return t
}

// Lookup returns the rule value for a condition.
func (t *DeductionTable) Lookup(c Condition) (types.Money, bool) {
	k := ruleKey{kind: c.Kind, grade: c.Grade}
	if v, ok := t.exact[k]; ok {
		return v, true
	}
	v, ok := t.fallback[k]
	return v, ok
}

// Len returns the number of indexed rules.
func (t *DeductionTable) Len() int {
	return len(t.exact) + len(t.fallback)
}
