// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a concrete database.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK and nested transaction reuse.
//
// The postgres implementation lives in infrastructure/storage/postgres;
// the in-memory store provides a snapshot-based implementation.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Noop runs fn directly. Writes are not rolled back on failure.
type Noop struct{}

// RunInTransaction implements Manager.
func (Noop) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Atomic reports whether m undoes writes when fn fails.
func Atomic(m Manager) bool {
	_, noop := m.(Noop)
	return m != nil && !noop
}

// ReadOnlyManager runs fn in a read-only transaction over one consistent
// snapshot.
type ReadOnlyManager interface {
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnly runs fn through m's read-only transaction when m offers one and
// calls fn directly otherwise.
func ReadOnly(ctx context.Context, m Manager, fn func(ctx context.Context) error) error {
	if ro, ok := m.(ReadOnlyManager); ok {
		return ro.ReadOnly(ctx, fn)
	}
	return fn(ctx)
}
