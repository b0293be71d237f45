package lock

import "context"

// Guarded runs fn while holding the lock for accountNumber and passes its
// result or error through unchanged. Every balance-mutating operation must go
// through here; the lock is released on every exit path.
func Guarded[T any](ctx context.Context, locker Locker, accountNumber string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := locker.WithLock(ctx, Key(accountNumber), func(ctx context.Context) error {
		result, err := fn(ctx)
		if err != nil {
			return err
		}
		out = result
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
