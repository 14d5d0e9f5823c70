package shortage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
)

type fakeRecords struct {
	records []partsstock.Record
	filter  partsstock.ListFilter
	err     error
}

func (f *fakeRecords) List(_ context.Context, filter partsstock.ListFilter) ([]partsstock.Record, error) {
	f.filter = filter
	return f.records, f.err
}

type fakePools struct {
	groups []partspool.Group
	order  map[string]int
}

func (f fakePools) Resolver(ctx context.Context) (*partspool.Resolver, error) {
	return partspool.NewResolver(ctx, f.groups)
}

func (f fakePools) ModelOrder(context.Context) (map[string]int, error) {
	return f.order, nil
}

func TestGetShortageReport(t *testing.T) {
	src := &fakeRecords{records: []partsstock.Record{
		rec("s1", "A", "battery", "x", 5, 3),
		rec("s1", "B", "battery", "x", 5, 4),
	}}
	pools := fakePools{
		groups: []partspool.Group{{Key: "P", Members: []string{"A", "B"}, SharedTypes: []partspool.PartsType{"battery"}}},
		order:  testOrder,
	}
	svc := NewService(src, pools, nil)

	report, err := svc.GetShortageReport(context.Background(), Filter{
		ShopIDs:    []string{"s1"},
		PartsTypes: []partspool.PartsType{"battery"},
	})
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 3, report.Rows[0].Shortage)
	assert.True(t, report.Rows[0].IsShort)
	assert.Equal(t, 1, report.ShortageCount)

	assert.Equal(t, []string{"s1"}, src.filter.ShopIDs)
	assert.Empty(t, src.filter.Models)
}

type snapshotTx struct {
	readOnly int
	inTx     bool
}

func (m *snapshotTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *snapshotTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnly++
	m.inTx = true
	defer func() { m.inTx = false }()
	return fn(ctx)
}

type snapshotRecords struct {
	tx       *snapshotTx
	listedIn bool
}

func (r *snapshotRecords) List(context.Context, partsstock.ListFilter) ([]partsstock.Record, error) {
	r.listedIn = r.tx.inTx
	return nil, nil
}

func TestGetShortageReport_ReadsOneSnapshot(t *testing.T) {
	m := &snapshotTx{}
	src := &snapshotRecords{tx: m}
	svc := NewService(src, fakePools{order: testOrder}, m)

	report, err := svc.GetShortageReport(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Equal(t, 1, m.readOnly)
	assert.True(t, src.listedIn)
}

func TestGetShortageReport_SourceError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(&fakeRecords{err: boom}, fakePools{}, nil)

	_, err := svc.GetShortageReport(context.Background(), Filter{})
	assert.ErrorIs(t, err, boom)
}
