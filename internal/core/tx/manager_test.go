package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readOnlyManager struct {
	Noop
	calls int
}

func (m *readOnlyManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func TestReadOnly(t *testing.T) {
	ran := 0
	fn := func(context.Context) error {
		ran++
		return nil
	}

	m := &readOnlyManager{}
	require.NoError(t, ReadOnly(context.Background(), m, fn))
	assert.Equal(t, 1, m.calls)

	require.NoError(t, ReadOnly(context.Background(), Noop{}, fn))
	assert.Equal(t, 2, ran)
}

func TestAtomic(t *testing.T) {
	assert.False(t, Atomic(nil))
	assert.False(t, Atomic(Noop{}))
	assert.True(t, Atomic(&readOnlyManager{}))
}
