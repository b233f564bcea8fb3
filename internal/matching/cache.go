// internal/matching/cache.go
// Redis-backed counter for "how many people liked me". The database is
// the source of truth; the cache is invalidated on every write that can
// change the count and repopulated lazily on read.

package matching

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const likedMeCountTTL = 10 * time.Minute

// CountCache caches per-user incoming like counts. A nil client
// disables caching entirely and every read falls through to the store.
type CountCache struct {
	client *redis.Client
}

func NewCountCache(client *redis.Client) *CountCache {
	return &CountCache{client: client}
}

func likedMeKey(userID int64) string {
	return fmt.Sprintf("matching:liked_me_count:%d", userID)
}

// Get returns the cached count, or ok=false on miss or disabled cache
func (c *CountCache) Get(ctx context.Context, userID int64) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}

	val, err := c.client.Get(ctx, likedMeKey(userID)).Result()
	if err != nil {
		return 0, false
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}

	return count, true
}

// Set stores the count with a TTL; failures are logged, never surfaced
func (c *CountCache) Set(ctx context.Context, userID, count int64) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, likedMeKey(userID), count, likedMeCountTTL).Err(); err != nil {
		log.Printf("matching: failed to cache liked-me count for user %d: %v", userID, err)
	}
}

// Invalidate drops the cached count after a write
func (c *CountCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, likedMeKey(userID)).Err(); err != nil {
		log.Printf("matching: failed to invalidate liked-me count for user %d: %v", userID, err)
	}
}
