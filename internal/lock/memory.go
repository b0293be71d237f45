package lock

import (
	"context"
	"sync"
	"time"

	"github.com/free8o0ter/accountSystem/internal/errs"
)

// MemoryLocker serializes same-key sections within one process. It provides
// no cross-process exclusion; use RedisLocker when running replicas.
type MemoryLocker struct {
	mu          sync.Mutex
	held        map[string]chan struct{}
	waitTimeout time.Duration
}

var _ Locker = (*MemoryLocker)(nil)

func NewMemoryLocker(waitTimeout time.Duration) *MemoryLocker {
	return &MemoryLocker{
		held:        make(map[string]chan struct{}),
		waitTimeout: waitTimeout,
	}
}

func (l *MemoryLocker) semaphore(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.held[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.held[key] = ch
	}
	return ch
}

func (l *MemoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	sem := l.semaphore(key)

	timer := time.NewTimer(l.waitTimeout)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
	case <-timer.C:
		return errs.ErrAccountTransactionLock
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-sem }()

	return fn(ctx)
}
