// Package lock provides per-account mutual exclusion for balance mutations.
// The Redis-backed locker serializes operations across all service instances;
// the in-process locker covers single-instance deployments and tests.
package lock

import (
	"context"

	"github.com/free8o0ter/accountSystem/internal/errs"
	"github.com/free8o0ter/accountSystem/internal/models"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const lockKeyPrefix = "ACLK:"

// Key returns the lock key for an account number.
func Key(accountNumber string) string {
	return lockKeyPrefix + accountNumber
}

// Locker provides mutual exclusion for a caller-chosen key. Implementations
// must release the lock on every exit path of fn and must not report an
// unlock failure over fn's result.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// RedisLocker backs Locker with a Redis mutex shared by all instances.
// Acquisition waits up to WaitTimeout (in RetryDelay steps) and the lock is
// leased for LeaseTime, so a crashed holder cannot wedge an account forever.
type RedisLocker struct {
	rs  *redsync.Redsync
	cfg models.LockConfig
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, cfg models.LockConfig) *RedisLocker {
	pool := goredis.NewPool(client)
	return &RedisLocker{
		rs:  redsync.New(pool),
		cfg: cfg,
	}
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	tries := 1
	if l.cfg.RetryDelay > 0 {
		tries = int(l.cfg.WaitTimeout/l.cfg.RetryDelay) + 1
	}

	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.cfg.LeaseTime),
		redsync.WithTries(tries),
		redsync.WithRetryDelay(l.cfg.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		zap.L().Warn("Failed to acquire account lock",
			zap.String("key", key),
			zap.Error(err))
		return errs.ErrAccountTransactionLock
	}

	defer func() {
		// A failed unlock is logged, never returned: the lease expires on
		// its own and a completed mutation must not be reported as failed.
		if ok, err := mutex.UnlockContext(ctx); !ok || err != nil {
			zap.L().Error("Failed to release account lock",
				zap.String("key", key),
				zap.Bool("unlock_ok", ok),
				zap.Error(err))
		}
	}()

	return fn(ctx)
}
