package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter shared by every replica that points
// at the same redis.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		// INCR and EXPIRE are separate calls. If the EXPIRE after the first
		// INCR was lost, the counter would never reset; repair it here, on
		// the blocked path only.
		ttl, err := r.client.TTL(ctx, key)
		if err != nil {
			return false, err
		}
		if ttl < 0 {
			if err := r.client.Expire(ctx, key, window); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	return true, nil
}

// ClientKey namespaces the counter per route and client address.
func ClientKey(route, ip string) string {
	return fmt.Sprintf("rate_limit:%s:%s", route, ip)
}
