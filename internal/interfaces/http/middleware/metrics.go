package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"shortlink.backend/pkg/metrics"
)

// MetricsMiddleware records request counts and latencies per route template
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
