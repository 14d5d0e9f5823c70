package partsstock

import (
	"repairdesk/internal/core/apperror"
)

// Split divides aggregate into n parts: every part gets aggregate/n and the
// first aggregate%n parts get one more. The same input always yields the same split.
func Split(aggregate, n int) ([]int, error) {
	if aggregate < 0 {
		return nil, apperror.NewInvalidAggregate(aggregate)
	}
	if n <= 0 {
		return nil, apperror.NewValidation("cannot split across zero members")
	}
	base, remainder := aggregate/n, aggregate%n
	parts := make([]int, n)
	for i := range parts {
		parts[i] = base
		if i < remainder {
			parts[i]++
		}
	}
	return parts, nil
}

// Redistribute computes new values of field for members, which must already be
// in the group's declared member order. A single member gets the aggregate as is.
// Nothing is persisted.
func Redistribute(members []Record, newAggregate int, field Field) ([]UpdatedRecord, error) {
	parts, err := Split(newAggregate, len(members))
	if err != nil {
		return nil, err
	}
	out := make([]UpdatedRecord, len(members))
	for i := range members {
		out[i] = UpdatedRecord{
			ID:       members[i].ID,
			Model:    members[i].Model,
			Field:    field,
			Previous: members[i].Get(field),
			Value:    parts[i],
			Version:  members[i].Version,
		}
	}
	return out, nil
}

// orderMembers sorts records by the position of their model in order and drops
// records whose model is not listed. It returns the models that had no record.
func orderMembers(records []Record, order []string) (ordered []Record, missing []string) {
	byModel := make(map[string]Record, len(records))
	for _, r := range records {
		byModel[r.Model] = r
	}
	ordered = make([]Record, 0, len(order))
	for _, m := range order {
		r, ok := byModel[m]
		if !ok {
			missing = append(missing, m)
			continue
		}
		ordered = append(ordered, r)
	}
	return ordered, missing
}
