package middleware

import (
	"time"

	"threadstory-be/internal/logger"
	"threadstory-be/internal/metrics"
	"threadstory-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog logs every request once it has been served.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.Requests.Inc()

		c.Next()

		ctx := c.Request.Context()
		userID, _ := utils.GetUserIDFromContext(ctx)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.String("ip", c.ClientIP()),
			zap.Duration("duration", time.Since(start)),
			zap.String("user_id", userID),
		}

		log := logger.FromCtx(ctx)
		switch {
		case status >= 500:
			log.Error("HTTP Request", fields...)
		case status >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	}
}
