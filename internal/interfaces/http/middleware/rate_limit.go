package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/logger"
	"shortlink.backend/pkg/redis"
)

var redisIncrWindow = redis.IncrWindow

// RateLimit allows at most limit requests per client IP and scope within a
// fixed window opened by the first request. A limit of 0 disables it.
// Redis failures let the request through.
func RateLimit(scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := redisIncrWindow(ctx, key, window)
		if err != nil {
			logger.Warn(ctx, "Rate limit check failed", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			response.AbortWithError(c, domainerrors.TooManyRequests("Too many requests"))
			return
		}
		c.Next()
	}
}
