package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes draft writes of one session across
// processes sharing a DraftStore. session.Manager takes the lock around
// every read-modify-write of a draft.
type DistributedLocker interface {
	// Lock blocks until key (form id and session id) is free or ctx is
	// done. The lock lapses after ttl if the holder never unlocks.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
