package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchQuery is one statement of a batch.
type BatchQuery struct {
	SQL  string
	Args []any
}

// BatchExecutor sends many statements in one round-trip.
type BatchExecutor struct {
	txManager *TxManager
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(txManager *TxManager) *BatchExecutor {
	return &BatchExecutor{txManager: txManager}
}

// ExecuteBatch runs queries in order and returns the total number of affected
// rows. It uses the transaction in ctx when there is one.
func (e *BatchExecutor) ExecuteBatch(ctx context.Context, queries []BatchQuery) (int64, error) {
	if len(queries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := e.txManager.GetQuerier(ctx).SendBatch(ctx, batch)
	defer results.Close()

	var affected int64
	for i := range queries {
		tag, err := results.Exec()
		if err != nil {
			return affected, fmt.Errorf("batch query %d failed: %w", i, err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}
