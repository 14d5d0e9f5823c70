// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"repairdesk/internal/core/apperror"
)

const dateLayout = "2006-01-02"

// ItemsResponse wraps a list result.
type ItemsResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}

// NewItemsResponse never returns a null items array.
func NewItemsResponse[T any](items []T) ItemsResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ItemsResponse[T]{Items: items, TotalCount: len(items)}
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC3339 timestamp.
// Calendar dates are read in loc.
func ParseDate(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, apperror.NewValidation("invalid "+field+" format, expected YYYY-MM-DD or RFC3339").
		WithDetail("field", field).
		WithDetail("value", value)
}

// splitList flattens repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
