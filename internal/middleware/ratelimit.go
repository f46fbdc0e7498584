package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/example/electricity-record/internal/config"
)

// AuthRateLimit bounds attempts per (client IP, path) with a fixed window
// kept in Redis, so the limit holds across server processes. When Redis is
// unreachable the middleware degrades open rather than blocking logins.
func AuthRateLimit(rdb *redis.Client, cfg *config.Config) fiber.Handler {
	window := cfg.AuthRateWindow
	limit := int64(cfg.AuthRateLimit)

	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.Next()
		}

		key := fmt.Sprintf("authrl:%s:%s", c.IP(), c.Path())
		ctx := c.Context()

		// INCR and EXPIRE NX run in one transaction so the counter can
		// never be left behind without a TTL.
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			return c.Next()
		}

		if count := incr.Val(); count > limit {
			ttl, err := rdb.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			c.Set("Retry-After", fmt.Sprintf("%d", int(ttl/time.Second)))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"message":     "too many authentication attempts, please try again later",
				"code":        "RATE_LIMIT_EXCEEDED",
				"retry_after": int(ttl / time.Second),
			})
		}

		return c.Next()
	}
}

// NewRedisClient connects to Redis for the rate limiter. A nil client is
// returned when the server is unreachable; callers treat that as "limiter
// disabled".
func NewRedisClient(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, auth rate limiting disabled: %v", err)
		return nil
	}
	return client
}
