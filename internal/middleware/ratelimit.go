package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client key using a Redis counter with a
// rolling window. When Redis is down it degrades to an in-process token
// bucket instead of failing open.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:  client,
		prefix:  prefix,
		limit:   limit,
		window:  window,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (r *RateLimiter) ByIP() fiber.Handler {
	return r.ByKey(func(c *fiber.Ctx) string { return c.IP() })
}

func (r *RateLimiter) ByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := keyFunc(c)
		allowed, err := r.allowRedis(c, key)
		if err != nil {
			allowed = r.allowLocal(key)
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

func (r *RateLimiter) allowRedis(c *fiber.Ctx, key string) (bool, error) {
	if r.client == nil {
		return false, redis.ErrClosed
	}
	ctx := c.Context()
	redisKey := fmt.Sprintf("%s:%s", r.prefix, key)
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		r.client.Expire(ctx, redisKey, r.window)
	}
	return count <= int64(r.limit), nil
}

func (r *RateLimiter) allowLocal(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	lim, ok := r.buckets[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(r.window/time.Duration(r.limit)), r.limit)
		r.buckets[key] = lim
	}
	return lim.Allow()
}
