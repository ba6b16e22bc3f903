package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trailbound/trailbound-go/internal/config"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// RateLimiter applies a fixed-window per-IP request quota backed by Redis.
// Counters live under one key per client IP and expire with the window, so
// restarting the API does not reset anyone's budget. Redis being down fails
// open: limiting is protection, not a dependency.
type RateLimiter struct {
	client *redis.Client
	logger *zap.Logger
	max    int
	window time.Duration
}

// NewRateLimiter creates a rate limiter from configuration.
func NewRateLimiter(client *redis.Client, logger *zap.Logger, cfg *config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		logger: logger,
		max:    cfg.Max,
		window: cfg.Window,
	}
}

// Limit enforces the quota and mirrors the usual rate-limit headers.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		remaining := int64(l.max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(l.max) {
			Abort(c, apperrors.New(apperrors.CodeBadRequest,
				"Too many requests from this IP, please try again in an hour!",
				http.StatusTooManyRequests))
			return
		}
		c.Next()
	}
}
