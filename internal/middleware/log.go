package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coder47007/Campus-Match-App-sub001/internal/logger"
)

// RequestLog logs one structured line per request.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
