package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
)

func TestLocal_SerialisesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "pool-a")
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.Held())
}

func TestLocal_DifferentKeysIndependent(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	unlockA, err := l.Lock(ctx, "pool-a")
	require.NoError(t, err)
	defer unlockA()

	ctxB, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	unlockB, err := l.Lock(ctxB, "pool-b")
	require.NoError(t, err)
	unlockB()
}

func TestLocal_ContextCancelled(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "pool-a")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, "pool-a")
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodePoolLocked))

	unlock()
	unlock() // second call is a no-op
	assert.Equal(t, 0, l.Held())
}

func TestLocal_WaitBudget(t *testing.T) {
	l := NewLocal(WithWait(30 * time.Millisecond))

	unlock, err := l.Lock(context.Background(), "pool-a")
	require.NoError(t, err)
	defer unlock()

	start := time.Now()
	_, err = l.Lock(context.Background(), "pool-a")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodePoolLocked))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, 1, l.Held())
}

func TestLocal_WithWaitIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultWait, NewLocal(WithWait(0)).wait)
	assert.Equal(t, DefaultWait, NewLocal(WithWait(-time.Second)).wait)
	assert.Equal(t, time.Second, NewLocal(WithWait(time.Second)).wait)
}

func TestLocal_WaitsForRelease(t *testing.T) {
	l := NewLocal(WithWait(time.Second))

	unlock, err := l.Lock(context.Background(), "pool-a")
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		unlock()
	}()

	unlockB, err := l.Lock(context.Background(), "pool-a")
	require.NoError(t, err)
	unlockB()
	assert.Equal(t, 0, l.Held())
}
