package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig configures a fixed-window limiter backed by Redis.
type RateLimiterConfig struct {
	Client    redis.UniversalClient
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// Extractor identifies the caller; the client IP by default.
	Extractor func(c *gin.Context) string
}

// NewRateLimiter counts requests per caller per window. Redis errors let the
// request through.
func NewRateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "webslayer:rl:"
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Extractor == nil {
		cfg.Extractor = func(c *gin.Context) string { return c.ClientIP() }
	}
	limit := strconv.Itoa(cfg.Limit)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := cfg.Extractor(c)
		if id == "" {
			id = "anonymous"
		}
		key := cfg.KeyPrefix + id

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := cfg.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			zap.S().Named("ratelimit").Debugw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		count := incr.Val()

		// A key without a TTL is a new window, or one whose EXPIRE was lost.
		reset := int(ttl.Val().Seconds())
		if ttl.Val() < 0 {
			if err := cfg.Client.Expire(ctx, key, cfg.Window).Err(); err != nil {
				zap.S().Named("ratelimit").Warnw("failed to set rate limit window", "key", key, "error", err)
				c.Next()
				return
			}
			reset = int(cfg.Window.Seconds())
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if count > int64(cfg.Limit) {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":           "rate limit exceeded",
				"rate_limit":      cfg.Limit,
				"window":          cfg.Window.String(),
				"retry_after_sec": reset,
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(cfg.Limit)-count))
		c.Next()
	}
}
