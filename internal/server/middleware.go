// internal/server/middleware.go
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/common/metrics"
	"workwise-backend/internal/common/observability"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with latency and status
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"clientIp": c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request failed", fields)
			return
		}
		log.Info("request handled", fields)
	}
}

// Metrics records per-route request counts and latency, both on the
// prometheus collectors and the otel meter
func Metrics(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(elapsed.Seconds())

		if obs != nil {
			obs.RecordRequest(c.Request.Context(), status)
			obs.RecordRequestDuration(c.Request.Context(), elapsed, status)
		}
	}
}

// Recovery converts panics into 500 responses without killing the server
func Recovery(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", map[string]interface{}{
					"panic": fmt.Sprintf("%v", r),
					"path":  c.Request.URL.Path,
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "INTERNAL_ERROR",
					"type":    "OTHER",
					"message": "An unexpected error occurred",
				})
			}
		}()
		c.Next()
	}
}

// Tracing opens a span per request and propagates it through the context
func Tracing(tracing *observability.Tracing) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(),
			c.Request.Method+" "+c.FullPath())
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
