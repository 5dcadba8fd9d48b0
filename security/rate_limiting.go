package security

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request limiter keyed by client IP and
// shared by every console instance through Redis.
type RateLimiter struct {
	redis  redis.Cmdable
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient redis.Cmdable, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// Limit returns a middleware counting requests under scope. Redis errors
// let the request through.
func (r *RateLimiter) Limit(scope string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ctx := e.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, e.RemoteIP())

		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable", "key", key, "error", err)
			return e.Next()
		}
		if count == 1 {
			if err := r.redis.Expire(ctx, key, r.window).Err(); err != nil {
				// A counter without a TTL would never reset.
				slog.Warn("rate limiter expire failed", "key", key, "error", err)
				r.redis.Del(ctx, key)
				return e.Next()
			}
		}
		if count > r.limit {
			return apis.NewTooManyRequestsError("Rate limit exceeded. Please try again later.", nil)
		}
		return e.Next()
	}
}
