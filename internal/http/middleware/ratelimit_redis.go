package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for addr, or nil when addr is empty or the
// server does not answer a ping. A nil client makes the limiter fail open.
func ConnectRedis(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", "addr", addr)
	return client
}

// KeyFunc picks the identity a limit is counted against.
type KeyFunc func(c *gin.Context) string

// ByClientIP counts requests per remote address.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimiter is a fixed-window limiter backed by Redis INCR/EXPIRE.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Enabled reports whether a Redis client is configured.
func (l *RateLimiter) Enabled() bool {
	return l != nil && l.client != nil
}

// Limit allows maxRequests per window for each key.
// Keys look like rl:<name>:<window_seconds>:<identity>.
func (l *RateLimiter) Limit(name string, maxRequests int, window time.Duration, key KeyFunc) gin.HandlerFunc {
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)

	return func(c *gin.Context) {
		if !l.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := "rl:" + name + ":" + windowSecs + ":" + key(c)

		val, err := l.client.Incr(ctx, redisKey).Result()
		if err != nil {
			// fail open
			logger.WithContext(ctx).Warn("rate limiter unavailable", "limiter", name, "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			l.client.Expire(ctx, redisKey, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(name).Inc()
			c.Header("Retry-After", windowSecs)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(name).Inc()
		c.Next()
	}
}
