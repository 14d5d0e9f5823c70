package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appctx "repairdesk/internal/core/context"
	"repairdesk/pkg/logger"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestWorker_RunsCleanupUntilCancelled(t *testing.T) {
	cleaner := &countingCleaner{}
	w := NewWorker(WorkerConfig{
		Idempotency:     cleaner,
		CleanupInterval: 5 * time.Millisecond,
		StatsInterval:   time.Hour,
	}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_CleanupErrorDoesNotStop(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("db down")}
	w := NewWorker(WorkerConfig{Idempotency: cleaner}, logger.NewNop())

	w.cleanupIdempotency(context.Background())
	w.cleanupIdempotency(context.Background())
	assert.EqualValues(t, 2, cleaner.calls.Load())
}

type tracingCleaner struct {
	trace *appctx.TraceContext
}

func (c *tracingCleaner) CleanupExpired(ctx context.Context) (int64, error) {
	c.trace = appctx.GetTrace(ctx)
	return 0, nil
}

func TestWorker_CleanupRunsUnderJobTrace(t *testing.T) {
	cleaner := &tracingCleaner{}
	w := NewWorker(WorkerConfig{Idempotency: cleaner}, logger.NewNop())

	w.cleanupIdempotency(context.Background())
	first := cleaner.trace
	w.cleanupIdempotency(context.Background())

	if assert.NotNil(t, first) && assert.NotNil(t, cleaner.trace) {
		assert.Equal(t, "cleanup_idempotency", first.Operation)
		assert.NotEqual(t, first.RequestID, cleaner.trace.RequestID)
	}
}
