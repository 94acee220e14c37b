package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadCacheTTL = 5 * time.Minute

// UnreadCache fronts the unread-count query with Redis. Every method is
// nil-safe and treats Redis errors as cache misses; the count of record
// always lives in Postgres.
type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache wraps the shared Redis client. A nil client disables caching.
func NewUnreadCache(client *redis.Client) *UnreadCache {
	return &UnreadCache{client: client}
}

func unreadKey(userID string) string {
	return "notify:unread:" + userID
}

// Get returns the cached unread count for the user, if present.
func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores the unread count with a short TTL.
func (c *UnreadCache) Set(ctx context.Context, userID string, count int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, unreadKey(userID), count, unreadCacheTTL).Err()
}

// Invalidate drops the cached count after any write to the user's inbox.
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, unreadKey(userID)).Err()
}
