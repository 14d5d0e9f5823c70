package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "repairdesk/internal/core/context"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/partsstock"
)

// AuditAction represents the type of audited operation.
type AuditAction string

const (
	AuditActionRedistribute AuditAction = "redistribute"
	AuditActionProvision    AuditAction = "provision"
	AuditActionReprice      AuditAction = "reprice"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which changes are stored compressed.
const DefaultCompressThreshold = 4 * 1024

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityKey         string          `db:"entity_key"`
	Action            AuditAction     `db:"action"`
	StaffID           string          `db:"staff_id"`
	ShopID            string          `db:"shop_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService writes the stock edit trail into sys_audit.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ partsstock.Auditor = (*AuditService)(nil)

// NewAuditService creates a new audit service. threshold <= 0 selects
// DefaultCompressThreshold.
func NewAuditService(txManager *TxManager, threshold int) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

// prepare fills defaults and compresses large payloads.
func (s *AuditService) prepare(ctx context.Context, entry *AuditEntry) {
	if staff := appctx.GetStaff(ctx); staff != nil {
		if entry.StaffID == "" {
			entry.StaffID = staff.StaffID
		}
		if entry.ShopID == "" {
			entry.ShopID = staff.ShopID
		}
	}
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entry.CompressionAlgo = CompressionNone
	if len(entry.Changes) > s.compressThreshold {
		entry.ChangesCompressed = s.encoder.EncodeAll(entry.Changes, nil)
		entry.Changes = nil
		entry.CompressionAlgo = CompressionZstd
	}
}

// Log records an audit entry in the transaction of ctx, if any.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	s.prepare(ctx, &entry)

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_key, action, staff_id, shop_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		entry.ID, entry.EntityType, entry.EntityKey, entry.Action, entry.StaffID, entry.ShopID,
		entry.Changes, entry.ChangesCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// LogRedistribution implements partsstock.Auditor.
func (s *AuditService) LogRedistribution(ctx context.Context, r partsstock.Redistribution) error {
	changes, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal redistribution: %w", err)
	}
	return s.Log(ctx, AuditEntry{
		EntityType: "parts_pool",
		EntityKey:  r.PoolKey,
		Action:     AuditActionRedistribute,
		StaffID:    r.StaffID,
		ShopID:     r.ShopID,
		Changes:    changes,
		CreatedAt:  r.At,
	})
}

// History returns the newest entries for an entity, decompressed.
func (s *AuditService) History(ctx context.Context, entityType, entityKey string, limit int) ([]AuditEntry, error) {
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, `
		SELECT id, entity_type, entity_key, action, staff_id, shop_id,
		       changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_key = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, entityType, entityKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityKey, &e.Action, &e.StaffID, &e.ShopID,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := s.inflate(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *AuditService) inflate(e *AuditEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.ChangesCompressed) == 0 {
		return nil
	}
	raw, err := s.decoder.DecodeAll(e.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress changes: %w", err)
	}
	e.Changes = raw
	e.ChangesCompressed = nil
	return nil
}
