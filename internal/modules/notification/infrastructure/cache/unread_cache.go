package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const unreadCountTTL = time.Minute

// RedisUnreadCache caches per-user unread counts in Redis. Every unread-set
// mutation invalidates the key before the count is re-read and pushed, so a
// connected client's badge never lags more than one push round-trip.
type RedisUnreadCache struct {
	client *redis.Client
}

func NewRedisUnreadCache(client *redis.Client) *RedisUnreadCache {
	return &RedisUnreadCache{client: client}
}

func key(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}

func (c *RedisUnreadCache) Get(ctx context.Context, userID uuid.UUID) (int, bool) {
	val, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *RedisUnreadCache) Set(ctx context.Context, userID uuid.UUID, count int) {
	c.client.Set(ctx, key(userID), count, unreadCountTTL)
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	c.client.Del(ctx, key(userID))
}
