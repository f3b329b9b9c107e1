package middleware

import (
	"time"

	"github.com/comitanigiacomo/trackloom/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger replaces gin's default access log with structured entries.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		keyvals := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start).Round(time.Microsecond),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("request", keyvals...)
		case status >= 400:
			logger.Warn("request", keyvals...)
		default:
			logger.Debug("request", keyvals...)
		}
	}
}
