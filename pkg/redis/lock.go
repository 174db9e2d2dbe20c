package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Locker hands out short-lived advisory locks backed by SetNX. It exists to
// serialize order placement per user; it is not a general distributed lock
// (no fencing, best-effort release).
type Locker struct {
	client *Client
	scope  string
	ttl    time.Duration
}

// NewLocker builds a Locker for the given scope.
func NewLocker(client *Client, scope string, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Locker{client: client, scope: scope, ttl: ttl}
}

// Acquire attempts to take the lock for id. It returns a release func on
// success and ok=false when the lock is already held.
func (l *Locker) Acquire(ctx context.Context, id string) (release func(), ok bool, err error) {
	key := l.client.LockKey(l.scope, id)
	token := uuid.NewString()

	ok, err = l.client.SetNX(ctx, key, token, l.ttl)
	if err != nil || !ok {
		return nil, false, err
	}

	release = func() {
		// TTL covers the case where the release itself fails.
		_ = l.client.Del(context.WithoutCancel(ctx), key)
	}
	return release, true, nil
}
