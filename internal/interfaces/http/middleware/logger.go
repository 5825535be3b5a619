package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"shortlink.backend/pkg/logger"
)

// LoggerMiddleware logs HTTP requests using the structured logger.
// It must run after RequestIDMiddleware so entries carry the request id.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
