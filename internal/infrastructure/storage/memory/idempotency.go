package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/infrastructure/idempotency"
)

type idempotencyEntry struct {
	staffID     string
	operation   string
	requestHash string
	status      idempotency.Status
	replay      idempotency.Replay
	expiresAt   time.Time
}

// IdempotencyStore keeps idempotency keys in process memory.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ idempotency.Store = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates an in-memory idempotency store.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// AcquireKey implements idempotency.Store.
func (s *IdempotencyStore) AcquireKey(_ context.Context, key, staffID, operation, requestHash string) (*idempotency.Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.expiresAt) {
		s.entries[key] = &idempotencyEntry{
			staffID:     staffID,
			operation:   operation,
			requestHash: requestHash,
			status:      idempotency.StatusPending,
			expiresAt:   now.Add(s.ttl),
		}
		return nil, nil
	}

	if e.staffID != staffID || e.operation != operation || e.requestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key)
	}
	if e.status == idempotency.StatusPending {
		return nil, apperror.NewIdempotencyConflict(key)
	}
	replay := e.replay
	return idempotency.NormalizeReplay(&replay), nil
}

// CompleteKey implements idempotency.Store.
func (s *IdempotencyStore) CompleteKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	return s.finish(key, idempotency.StatusSuccess, statusCode, contentType, response)
}

// FailKey implements idempotency.Store.
func (s *IdempotencyStore) FailKey(_ context.Context, key string, statusCode int, contentType string, response any) error {
	return s.finish(key, idempotency.StatusFailed, statusCode, contentType, response)
}

// ReleaseKey implements idempotency.Store. Finished keys are kept.
func (s *IdempotencyStore) ReleaseKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && e.status == idempotency.StatusPending {
		delete(s.entries, key)
	}
	return nil
}

func (s *IdempotencyStore) finish(key string, status idempotency.Status, statusCode int, contentType string, response any) error {
	var body []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		body = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	e.status = status
	e.replay = idempotency.Replay{StatusCode: statusCode, ContentType: contentType, Body: body}
	return nil
}
