package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hireloop/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterStore answers whether a caller may proceed. Implementations
// own their state; the middleware holds no globals, so multiple instances
// of the service can share a Redis-backed store.
type RateLimiterStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisRateLimiter is a fixed-window counter shared across instances.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
}

func NewRedisRateLimiter(client *redis.Client, perMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: perMinute}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "rate:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, utils.RateLimitWindow).Err(); err != nil {
			return false, fmt.Errorf("rate limiter expire: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// MemoryRateLimiter keeps a token-bucket limiter per key in process.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute int
}

func NewMemoryRateLimiter(perMinute int) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(utils.RateLimitWindow/time.Duration(l.perMinute)), l.perMinute)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow(), nil
}

// RateLimitMiddleware limits requests per caller, falling back to the
// client IP for unauthenticated routes.
func RateLimitMiddleware(store RateLimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := CallerID(c)
		if key == "" {
			key = c.ClientIP()
		}
		allowed, err := store.Allow(c.Request.Context(), key)
		if err != nil {
			// A broken limiter should not take the API down with it.
			utils.GetLogger().Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
