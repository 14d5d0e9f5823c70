// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// StaffContext identifies the shop staff member behind a request.
// Authentication happens upstream; the gateway forwards these values as headers.
type StaffContext struct {
	StaffID string
	ShopID  string
}

type staffContextKey struct{}

// WithStaff adds StaffContext to context.
func WithStaff(ctx context.Context, staff *StaffContext) context.Context {
	return context.WithValue(ctx, staffContextKey{}, staff)
}

// GetStaff returns StaffContext from context.
func GetStaff(ctx context.Context) *StaffContext {
	if v, ok := ctx.Value(staffContextKey{}).(*StaffContext); ok {
		return v
	}
	return nil
}

// GetStaffID returns staff ID from context or empty string.
func GetStaffID(ctx context.Context) string {
	if s := GetStaff(ctx); s != nil {
		return s.StaffID
	}
	return ""
}

// GetShopID returns the staff member's home shop or empty string.
func GetShopID(ctx context.Context) string {
	if s := GetStaff(ctx); s != nil {
		return s.ShopID
	}
	return ""
}
