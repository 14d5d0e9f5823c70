package partsstock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		aggregate int
		n         int
		want      []int
	}{
		{"even", 9, 3, []int{3, 3, 3}},
		{"remainder goes to first members", 10, 3, []int{4, 3, 3}},
		{"remainder two", 11, 3, []int{4, 4, 3}},
		{"fewer units than members", 2, 3, []int{1, 1, 0}},
		{"zero", 0, 4, []int{0, 0, 0, 0}},
		{"single member", 7, 1, []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.aggregate, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_Conservation(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for agg := 0; agg <= 50; agg++ {
			parts, err := Split(agg, n)
			require.NoError(t, err)

			sum, min, max := 0, parts[0], parts[0]
			for _, p := range parts {
				sum += p
				if p < min {
					min = p
				}
				if p > max {
					max = p
				}
			}
			assert.Equal(t, agg, sum, "agg=%d n=%d", agg, n)
			assert.LessOrEqual(t, max-min, 1, "agg=%d n=%d", agg, n)
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	_, err := Split(-1, 3)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAggregate))

	_, err = Split(5, 0)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestRedistribute(t *testing.T) {
	members := []Record{
		{ID: id.New(), Model: "A", RequiredQty: 1, ActualQty: 9, Version: 3},
		{ID: id.New(), Model: "B", RequiredQty: 2, ActualQty: 0, Version: 1},
		{ID: id.New(), Model: "C", RequiredQty: 3, ActualQty: 0, Version: 7},
	}

	first, err := Redistribute(members, 10, FieldActual)
	require.NoError(t, err)
	second, err := Redistribute(members, 10, FieldActual)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, []int{4, 3, 3}, []int{first[0].Value, first[1].Value, first[2].Value})
	assert.Equal(t, 9, first[0].Previous)
	assert.Equal(t, 7, first[2].Version)
	assert.Equal(t, FieldActual, first[1].Field)

	// input records are not touched
	assert.Equal(t, 9, members[0].ActualQty)
}

func TestRedistribute_RequiredField(t *testing.T) {
	members := []Record{{ID: id.New(), Model: "A", RequiredQty: 4}}
	got, err := Redistribute(members, 6, FieldRequired)
	require.NoError(t, err)
	assert.Equal(t, 6, got[0].Value)
	assert.Equal(t, 4, got[0].Previous)
}

func TestOrderMembers(t *testing.T) {
	records := []Record{
		{Model: "C"},
		{Model: "X"},
		{Model: "A"},
	}
	ordered, missing := orderMembers(records, []string{"A", "B", "C"})

	require.Len(t, ordered, 2)
	assert.Equal(t, "A", ordered[0].Model)
	assert.Equal(t, "C", ordered[1].Model)
	assert.Equal(t, []string{"B"}, missing)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("requiredQty")
	require.NoError(t, err)
	assert.Equal(t, "required_qty", f.Column())

	f, err = ParseField("actualQty")
	require.NoError(t, err)
	assert.Equal(t, "actual_qty", f.Column())

	_, err = ParseField("quantity")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
