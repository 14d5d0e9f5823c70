package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/infrastructure/idempotency"
)

// staleAfter is how long a pending key may sit before another request reclaims it.
const staleAfter = time.Minute

// IdempotencyRecord is one row of sys_idempotency.
type IdempotencyRecord struct {
	Key         string             `db:"idempotency_key"`
	StaffID     string             `db:"staff_id"`
	Operation   string             `db:"operation"`
	Status      idempotency.Status `db:"status"`
	RequestHash string             `db:"request_hash"`
	Response    []byte             `db:"response"`
	StatusCode  int                `db:"response_status"`
	ContentType string             `db:"response_content_type"`
	CreatedAt   time.Time          `db:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at"`
	ExpiresAt   time.Time          `db:"expires_at"`
}

// IdempotencyStore manages idempotency keys in Postgres.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
}

var _ idempotency.Store = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{txManager: txManager, ttl: ttl}
}

// AcquireKey implements idempotency.Store.
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, staffID, operation, requestHash string) (*idempotency.Replay, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	var (
		record   IdempotencyRecord
		inserted bool
	)
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, staff_id, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, $7)
		RETURNING staff_id, operation, status, request_hash, response,
		          COALESCE(response_status, 0), COALESCE(response_content_type, ''),
		          updated_at, (xmax = 0) AS inserted
	`, key, staffID, operation, idempotency.StatusPending, requestHash, now, expiresAt).Scan(
		&record.StaffID, &record.Operation, &record.Status, &record.RequestHash, &record.Response,
		&record.StatusCode, &record.ContentType, &record.UpdatedAt, &inserted,
	)
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}
	if inserted {
		return nil, nil
	}

	if record.StaffID != staffID || record.Operation != operation || record.RequestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", record.Operation).
			WithDetail("request_operation", operation)
	}

	switch record.Status {
	case idempotency.StatusSuccess, idempotency.StatusFailed:
		return idempotency.NormalizeReplay(&idempotency.Replay{
			StatusCode:  record.StatusCode,
			ContentType: record.ContentType,
			Body:        record.Response,
		}), nil

	case idempotency.StatusPending:
		if now.Sub(record.UpdatedAt) <= staleAfter {
			return nil, apperror.NewIdempotencyConflict(key)
		}
		tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
			UPDATE sys_idempotency
			SET updated_at = $1
			WHERE idempotency_key = $2 AND status = $3 AND updated_at = $4
		`, now, key, idempotency.StatusPending, record.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("reclaim stale key: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, apperror.NewIdempotencyConflict(key)
		}
		return nil, nil
	}
	return nil, nil
}

// CompleteKey implements idempotency.Store.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	return s.finish(ctx, key, idempotency.StatusSuccess, statusCode, contentType, response)
}

// FailKey implements idempotency.Store.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	return s.finish(ctx, key, idempotency.StatusFailed, statusCode, contentType, response)
}

// ReleaseKey implements idempotency.Store. Only a pending key is removed, so
// a finished response is never lost.
func (s *IdempotencyStore) ReleaseKey(ctx context.Context, key string) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE idempotency_key = $1 AND status = $2`,
		key, idempotency.StatusPending)
	if err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) finish(ctx context.Context, key string, status idempotency.Status, statusCode int, contentType string, response any) error {
	var body []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		body = b
	}

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, status, body, statusCode, contentType, time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("finish idempotency key: %w", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
