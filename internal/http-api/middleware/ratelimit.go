package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		// bound memory; a reset only hands out fresh buckets
		if len(l.limiters) > 10000 {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// RedisLimiter is a fixed-window counter shared by every API instance.
// Redis errors let the request through.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *slog.Logger
}

// DefaultWindow replaces a non-positive RedisLimiter window.
const DefaultWindow = time.Minute

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration, logger *slog.Logger) *RedisLimiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{client: client, limit: limit, window: window, logger: logger}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("yamdb:ratelimit:%s:%d", key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate_limit_backend_error", "error", err)
		return true
	}
	return incr.Val() <= l.limit
}

// RateLimit rejects callers over the limit with 429, keyed by client IP.
func RateLimit(limiter Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key) {
			logger.Warn("rate_limit_exceeded", "key", key, "path", c.Request.URL.Path, "method", c.Request.Method)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "request was throttled"})
			return
		}
		c.Next()
	}
}
