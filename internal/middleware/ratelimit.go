package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen lets the request through when Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed answers 503 when Redis is unavailable.
	FailClosed
)

var errNoRedis = errors.New("redis client is nil")

// RateLimitBypassed reports whether throttling is off in env.
func RateLimitBypassed(env string) bool {
	switch env {
	case "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts a hit for (resource, id) in a fixed window.
// It returns true while the count stays within limit.
func CheckRateLimit(ctx context.Context, env string, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if RateLimitBypassed(env) {
		return true, nil
	}
	return countHit(ctx, rdb, resource, id, limit, window)
}

func countHit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, errNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit enforces limit requests per window, keyed by the authenticated
// user when present and by client IP otherwise. Redis failures let requests
// through. env is the application environment from config.
func RateLimit(env string, rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(env, rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(env string, rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	check := func(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
		return CheckRateLimit(ctx, env, rdb, resource, id, limit, window)
	}
	return rateLimiter(rdb, limit, window, policy, check, name...)
}

type hitCounter func(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error)

func rateLimiter(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, check hitCounter, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := c.Locals("userID").(string); ok && uid != "" {
			id = "user:" + uid
		} else {
			id = "ip:" + c.IP()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := check(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"message": "Rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Rate limit exceeded",
			})
		}
		return c.Next()
	}
}
