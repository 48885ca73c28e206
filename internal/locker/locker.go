// Package locker serializes read-modify-write sequences per key (the user's
// email). The in-process [KeyedMutex] covers a single server; [RedisLocker]
// extends the guarantee across instances sharing one store.
package locker

import (
	"context"
	"errors"
)

var (
	// ErrLockTimeout is returned when ctx ends before the lock is acquired.
	ErrLockTimeout = errors.New("timed out waiting for lock")
	// ErrUnavailable is returned when the lock backend cannot be reached.
	ErrUnavailable = errors.New("lock backend is unavailable")
)

// Locker acquires an exclusive lock on key. The returned function releases
// it and must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
