package memory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
)

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewIdempotencyStore(time.Hour)
	s.now = func() time.Time { return now }

	replay, err := s.AcquireKey(ctx, "k1", "staff", "PUT /x", "h1")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = s.AcquireKey(ctx, "k1", "staff", "PUT /x", "h1")
	assert.True(t, apperror.HasCode(err, apperror.CodeIdempotency))

	require.NoError(t, s.CompleteKey(ctx, "k1", http.StatusOK, "application/json", map[string]int{"n": 1}))

	replay, err = s.AcquireKey(ctx, "k1", "staff", "PUT /x", "h1")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, http.StatusOK, replay.StatusCode)
	assert.JSONEq(t, `{"n":1}`, string(replay.Body))

	_, err = s.AcquireKey(ctx, "k1", "staff", "PUT /x", "other-body")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Idempotency key mismatch", appErr.Message)

	// expired keys are reusable
	now = now.Add(2 * time.Hour)
	replay, err = s.AcquireKey(ctx, "k1", "staff", "PUT /x", "other-body")
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func TestIdempotencyStore_FailedReplay(t *testing.T) {
	ctx := context.Background()
	s := NewIdempotencyStore(time.Hour)

	_, err := s.AcquireKey(ctx, "k2", "", "PUT /x", "h")
	require.NoError(t, err)
	require.NoError(t, s.FailKey(ctx, "k2", http.StatusNotFound, "", map[string]string{"code": "NOT_FOUND"}))

	replay, err := s.AcquireKey(ctx, "k2", "", "PUT /x", "h")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, replay.StatusCode)
	assert.Equal(t, "application/json", replay.ContentType)
}

func TestIdempotencyStore_ReleaseKey(t *testing.T) {
	ctx := context.Background()
	s := NewIdempotencyStore(time.Hour)

	_, err := s.AcquireKey(ctx, "k3", "staff", "PUT /x", "h")
	require.NoError(t, err)
	require.NoError(t, s.ReleaseKey(ctx, "k3"))

	// the retry owns the key again
	replay, err := s.AcquireKey(ctx, "k3", "staff", "PUT /x", "h")
	require.NoError(t, err)
	assert.Nil(t, replay)

	require.NoError(t, s.CompleteKey(ctx, "k3", http.StatusOK, "application/json", map[string]int{"n": 2}))
	require.NoError(t, s.ReleaseKey(ctx, "k3"))

	replay, err = s.AcquireKey(ctx, "k3", "staff", "PUT /x", "h")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.JSONEq(t, `{"n":2}`, string(replay.Body))

	assert.NoError(t, s.ReleaseKey(ctx, "unknown"))
}
