// Package idempotency defines the store contract behind X-Idempotency-Key.
package idempotency

import (
	"context"
	"net/http"
)

// Status is the state of an idempotent operation.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Replay is a cached HTTP response.
type Replay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Store persists idempotency keys.
//
// AcquireKey returns (nil, nil) when the caller now owns the key, a Replay when
// the operation already finished, or an AppError when the key is in flight or
// was used for a different request.
//
// CompleteKey and FailKey store a final response that later requests replay.
// ReleaseKey forgets a pending key after a transient failure so a retry with
// the same key runs the operation again.
type Store interface {
	AcquireKey(ctx context.Context, key, staffID, operation, requestHash string) (*Replay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	ReleaseKey(ctx context.Context, key string) error
}

// NormalizeReplay fills defaults for records stored without status or content type.
func NormalizeReplay(r *Replay) *Replay {
	if r.StatusCode == 0 {
		r.StatusCode = http.StatusOK
	}
	if r.ContentType == "" {
		r.ContentType = "application/json"
	}
	return r
}
