package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// RateLimiter is a fixed-window limiter for a single process.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	nextSweep time.Time
	now       func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if now.After(r.nextSweep) {
		r.sweep(now)
		r.nextSweep = now.Add(window)
	}
	bucket, ok := r.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// sweep drops buckets whose window has ended.
func (r *RateLimiter) sweep(now time.Time) {
	for key, bucket := range r.buckets {
		if now.After(bucket.windowEnd) {
			delete(r.buckets, key)
		}
	}
}

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter shares the fixed window across API instances. It fails open
// when Redis is unreachable.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	logger *zap.Logger
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		logger: logger,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{"ratelimit:" + key}, ttl, limit).Int64()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", zap.String("key", key), zap.Error(err))
		return true
	}
	return allowed == 1
}

// RateLimit rejects requests over limit per window for the key keyFn picks.
// An empty key is not limited.
func RateLimit(limiter Limiter, keyFn func(*gin.Context) string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		key := keyFn(c)
		if key == "" {
			c.Next()
			return
		}
		if !limiter.Allow(key, limit, window) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, slow down", "error": "rate_limited"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserKey limits per authenticated user, falling back to client IP.
func UserKey(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if id, ok := CurrentUserID(c); ok {
			return prefix + ":user:" + id
		}
		return prefix + ":ip:" + c.ClientIP()
	}
}
