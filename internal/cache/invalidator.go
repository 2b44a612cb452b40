// Package cache drops a user's cached financial reads once a top-up settles.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Suffixes of the per-user finance keys the read side caches.
var financeQueries = []string{"balance", "transactions", "summary"}

type redisClient interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type RedisInvalidator struct {
	rdb redisClient
}

func NewRedisInvalidator(rdb *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{rdb: rdb}
}

// Keys returns the cached finance keys for userID.
func Keys(userID string) []string {
	keys := make([]string, 0, len(financeQueries))
	for _, q := range financeQueries {
		keys = append(keys, fmt.Sprintf("finance:%s:%s", userID, q))
	}
	return keys
}

// Channel is where connected clients learn that their finance reads are stale.
func Channel(userID string) string {
	return "finance:invalidate:" + userID
}

// Invalidate deletes the user's finance keys and tells subscribers to refetch.
// Deleting keys that are already gone is not an error.
func (i *RedisInvalidator) Invalidate(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("invalidate: empty user id")
	}
	if err := i.rdb.Del(ctx, Keys(userID)...).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", userID, err)
	}
	if err := i.rdb.Publish(ctx, Channel(userID), "stale").Err(); err != nil {
		return fmt.Errorf("notify %s: %w", userID, err)
	}
	return nil
}
