package partspool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
)

const (
	battery PartsType = "battery"
	screen  PartsType = "screen"
)

func testGroups() []Group {
	return []Group{
		{Key: "IP13-FAMILY", Name: "iPhone 13 family", Members: []string{"IP13", "IP13MINI", "IP13PRO"}, SharedTypes: []PartsType{battery}},
		{Key: "SE-FAMILY", Members: []string{"SE2", "SE3"}, SharedTypes: []PartsType{battery, screen}},
	}
}

func TestResolver_IsShared(t *testing.T) {
	r, err := NewResolver(context.Background(), testGroups())
	require.NoError(t, err)

	assert.True(t, r.IsShared("IP13MINI", battery))
	assert.False(t, r.IsShared("IP13MINI", screen), "screen is model specific for the 13 family")
	assert.True(t, r.IsShared("SE3", screen))
	assert.False(t, r.IsShared("PIXEL7", battery), "unknown models are never shared")

	g, ok := r.ResolveGroup("IP13PRO")
	require.True(t, ok)
	assert.Equal(t, "IP13-FAMILY", g.Key)

	_, ok = r.ResolveGroup("PIXEL7")
	assert.False(t, ok)
}

func TestResolver_Resolve(t *testing.T) {
	r, err := NewResolver(context.Background(), testGroups())
	require.NoError(t, err)

	tests := []struct {
		name        string
		keyOrModel  string
		pt          PartsType
		wantKey     string
		wantMembers []string
		wantShared  bool
	}{
		{"pool key", "IP13-FAMILY", battery, "IP13-FAMILY", []string{"IP13", "IP13MINI", "IP13PRO"}, true},
		{"member model shared type", "IP13PRO", battery, "IP13-FAMILY", []string{"IP13", "IP13MINI", "IP13PRO"}, true},
		{"member model unshared type", "IP13PRO", screen, "IP13PRO", []string{"IP13PRO"}, false},
		{"ungrouped model", "PIXEL7", battery, "PIXEL7", []string{"PIXEL7"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := r.Resolve(tt.keyOrModel, tt.pt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, u.Key)
			assert.Equal(t, tt.wantMembers, u.Members)
			assert.Equal(t, tt.wantShared, u.Shared)
		})
	}

	_, err = r.Resolve("IP13-FAMILY", screen)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestNewResolver_RejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewResolver(ctx, []Group{
		{Key: "A", Members: []string{"M1", "M2"}},
		{Key: "B", Members: []string{"M2"}},
	})
	assert.Error(t, err, "model in two groups")

	_, err = NewResolver(ctx, []Group{{Key: "A", Members: []string{"M1", "M1"}}})
	assert.Error(t, err, "duplicate member")

	_, err = NewResolver(ctx, []Group{{Key: "A"}})
	assert.Error(t, err, "empty group")

	_, err = NewResolver(ctx, []Group{{Key: "M1", Members: []string{"M1"}}})
	assert.Error(t, err, "key collides with model")
}
