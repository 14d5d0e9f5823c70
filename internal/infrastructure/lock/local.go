// Package lock provides per-pool serialisation for parts stock edits.
package lock

import (
	"context"
	"sync"
	"time"

	"repairdesk/internal/core/apperror"
)

// DefaultWait is how long Lock waits for a busy pool before giving up.
const DefaultWait = 5 * time.Second

// Local is an in-process keyed mutex. Waiting is bounded by the wait budget
// and by context cancellation. Use it for single-instance deployments and tests.
type Local struct {
	mu   sync.Mutex
	keys map[string]*keyLock
	wait time.Duration
}

// LocalOption configures a Local locker.
type LocalOption func(*Local)

// WithWait sets the wait budget. Non-positive values keep DefaultWait.
func WithWait(d time.Duration) LocalOption {
	return func(l *Local) {
		if d > 0 {
			l.wait = d
		}
	}
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewLocal creates an in-process locker.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		keys: make(map[string]*keyLock),
		wait: DefaultWait,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock blocks until key is free, ctx is done or the wait budget runs out.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	l.mu.Lock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.keys[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-waitCtx.Done():
		l.release(key, kl)
		return nil, apperror.NewPoolLocked(key).WithCause(waitCtx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}

func (l *Local) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.keys, key)
	}
}

// Held returns the number of keys currently tracked (held or awaited).
func (l *Local) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}
