package redis

import (
	"context"
	"time"
)

// ReplayCache remembers webhook events already processed so provider retries
// short-circuit before touching the database. Purely an optimization: the
// interview state machine is idempotent without it.
type ReplayCache struct {
	ttl time.Duration
}

// NewReplayCache returns a cache whose entries expire after ttl.
func NewReplayCache(ttl time.Duration) *ReplayCache {
	return &ReplayCache{ttl: ttl}
}

// MarkSeen records the event key and reports whether it was already present.
// When Redis is unavailable the event is reported as unseen so processing
// falls through to the idempotent state machine.
func (c *ReplayCache) MarkSeen(ctx context.Context, eventKey string) (bool, error) {
	rdb := Client()
	if rdb == nil {
		return false, nil
	}

	set, err := rdb.SetNX(ctx, "webhook:seen:"+eventKey, 1, c.ttl).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}
