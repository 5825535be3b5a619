package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "shortlink.backend/internal/domain/errors"
	"shortlink.backend/internal/interfaces/http/response"
	"shortlink.backend/pkg/logger"
	"shortlink.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	idempotencyProcessing = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key from the same account. Requests without the header pass
// through untouched. It must run after SessionAuth.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s:%s", userID, c.FullPath(), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == idempotencyProcessing {
				response.AbortWithError(c, domainerrors.Conflict("Request already in progress"))
				return
			}
			var stored storedResponse
			if jsonErr := json.Unmarshal([]byte(val), &stored); jsonErr != nil {
				logger.Warn(ctx, "Discarding unreadable idempotent response", zap.String("key", storageKey))
				_ = redisDel(ctx, storageKey)
				break
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
			c.Abort()
			return
		case !errors.Is(err, redis.ErrNil):
			logger.Warn(ctx, "Idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, idempotencyProcessing, LockDuration)
		if err != nil || !acquired {
			response.AbortWithError(c, domainerrors.Conflict("Request already in progress"))
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			// let the client retry
			_ = redisDel(ctx, storageKey)
			return
		}
		payload, _ := json.Marshal(storedResponse{Status: status, Body: w.body.String()})
		if err := redisSet(ctx, storageKey, string(payload), RetentionDuration); err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
		}
	}
}
