package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter is a fixed-window request counter kept in Redis
type RateLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient redis.Cmdable, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewRecommendationRateLimiter limits how many recommendations one user can ask for per window
func NewRecommendationRateLimiter(redisClient redis.Cmdable, limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:recommend",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting per
// authenticated user. It must run after AuthMiddleware.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: InvalidTokenMessage})
			return
		}

		userID := identity.UserID.String()
		now := time.Now()
		allowed, remaining, resetTime, err := rl.isAllowedAt(c.Request.Context(), userID, now)
		if err != nil {
			// Fail open: a Redis outage must not take recommendations down
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the rate limit of %d recommendations per %v", rl.config.Limit, rl.config.Window),
				"rate_limit_remaining": remaining,
				"rate_limit_reset":     resetTime.Unix(),
				"retry_after":          int(time.Until(resetTime).Seconds()),
			})
			return
		}

		c.Next()

		// Client errors are rejected before any generation work, so they do not use up quota
		if status := c.Writer.Status(); status >= 400 && status < 500 {
			if err := rl.refund(c.Request.Context(), userID, now); err != nil {
				zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit refund failed")
			}
		}
	}
}

func (rl *RateLimiter) windowKey(userID string, now time.Time) (string, time.Time) {
	windowStart := now.Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix()), windowStart
}

// IsAllowed counts a request from the given user and reports whether it fits in the window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	return rl.isAllowedAt(ctx, userID, time.Now())
}

func (rl *RateLimiter) isAllowedAt(ctx context.Context, userID string, now time.Time) (bool, int, time.Time, error) {
	key, windowStart := rl.windowKey(userID, now)

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// refund takes back a request counted at now
func (rl *RateLimiter) refund(ctx context.Context, userID string, now time.Time) error {
	key, _ := rl.windowKey(userID, now)
	return rl.redis.Decr(ctx, key).Err()
}

// Remaining returns how many requests the user has left in the current window without counting one
func (rl *RateLimiter) Remaining(ctx context.Context, userID string) (int, time.Time, error) {
	key, windowStart := rl.windowKey(userID, time.Now())
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, key).Int()
	if err == redis.Nil {
		// No requests yet in this window
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

// Config returns the limiter's settings
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}
