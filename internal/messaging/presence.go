// internal/messaging/presence.go
// Presence is tracked with redis TTL keys: an entry that is not
// refreshed expires on its own, so a crashed client goes offline
// without any cleanup pass.

package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type PresenceTracker struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewPresenceTracker creates a tracker. client may be nil, in which
// case every user reads as offline.
func NewPresenceTracker(client *redis.Client, ttl time.Duration) *PresenceTracker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &PresenceTracker{redis: client, ttl: ttl}
}

func presenceKey(userID int64) string {
	return fmt.Sprintf("presence:%d", userID)
}

// Touch marks the user online for the TTL window
func (p *PresenceTracker) Touch(ctx context.Context, userID int64) error {
	if p == nil || p.redis == nil {
		return nil
	}
	return p.redis.Set(ctx, presenceKey(userID), "1", p.ttl).Err()
}

// Clear removes the presence key immediately
func (p *PresenceTracker) Clear(ctx context.Context, userID int64) error {
	if p == nil || p.redis == nil {
		return nil
	}
	return p.redis.Del(ctx, presenceKey(userID)).Err()
}

// IsOnline reports whether the user's presence key is still live
func (p *PresenceTracker) IsOnline(ctx context.Context, userID int64) (bool, error) {
	if p == nil || p.redis == nil {
		return false, nil
	}
	n, err := p.redis.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
