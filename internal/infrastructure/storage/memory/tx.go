package memory

import (
	"context"

	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/pricing"
)

type txKey struct{}

// journal records what one transaction changed: the value each touched row
// had before its first write (nil when the row did not exist) and the audit
// entries waiting for commit.
type journal struct {
	stock     map[id.ID]*partsstock.Record
	inventory map[id.ID]*pricing.InventoryItem
	audit     []partsstock.Redistribution
}

func newJournal() *journal {
	return &journal{
		stock:     make(map[id.ID]*partsstock.Record),
		inventory: make(map[id.ID]*pricing.InventoryItem),
	}
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	return j
}

// RunInTransaction implements tx.Manager. Transactions are serialised. A failed
// fn restores only the rows it wrote and drops its audit entries, so writes
// made outside the transaction meanwhile survive. Nested calls join the outer
// transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := newJournal()
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		s.rollback(j)
		return err
	}
	s.commit(j)
	return nil
}

// touchStock saves the pre-transaction value of a stock row. Caller holds s.mu.
func (s *Store) touchStock(ctx context.Context, recordID id.ID) {
	j := journalFrom(ctx)
	if j == nil {
		return
	}
	if _, seen := j.stock[recordID]; seen {
		return
	}
	if prev, ok := s.stock[recordID]; ok {
		j.stock[recordID] = &prev
		return
	}
	j.stock[recordID] = nil
}

// touchInventory saves the pre-transaction value of an inventory row. Caller holds s.mu.
func (s *Store) touchInventory(ctx context.Context, itemID id.ID) {
	j := journalFrom(ctx)
	if j == nil {
		return
	}
	if _, seen := j.inventory[itemID]; seen {
		return
	}
	if prev, ok := s.inventory[itemID]; ok {
		j.inventory[itemID] = &prev
		return
	}
	j.inventory[itemID] = nil
}

func (s *Store) commit(j *journal) {
	if len(j.audit) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, j.audit...)
}

func (s *Store) rollback(j *journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, prev := range j.stock {
		if prev == nil {
			delete(s.stock, k)
			continue
		}
		s.stock[k] = *prev
	}
	for k, prev := range j.inventory {
		if prev == nil {
			delete(s.inventory, k)
			continue
		}
		s.inventory[k] = *prev
	}
}
