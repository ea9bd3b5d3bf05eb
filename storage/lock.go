package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SlotLock serializes booking attempts per slot key across server
// instances using SETNX with a TTL. The database transaction stays the
// authority on conflicts; the lock keeps concurrent instances from racing
// the same check-then-write.
type SlotLock struct {
	client *redis.Client
}

func NewSlotLock(client *redis.Client) *SlotLock {
	return &SlotLock{client: client}
}

func (l *SlotLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	ok, err := l.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("slot lock %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("slot %s is locked", key)
	}
	release := func() {
		l.client.Del(context.Background(), key)
	}
	return release, nil
}
