package logger

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware logs one line per request. Server errors log at error level, client errors at warn.
func GinMiddleware(l *Logger) gin.HandlerFunc {
	l = l.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"clientIp", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("request", kv...)
		case status >= 400:
			l.Warn("request", kv...)
		default:
			l.Info("request", kv...)
		}
	}
}
