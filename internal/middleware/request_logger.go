package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pressgen/pressgen-backend/internal/logger"
)

// RequestLogger emits one structured line per request. Streaming
// endpoints log their duration like everything else; the line appears
// once the stream closes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			reqLog.Error("Request failed", fields...)
		case status >= 400:
			reqLog.Warn("Request rejected", fields...)
		default:
			reqLog.Info("Request served", fields...)
		}
	}
}
