package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status.
// It also puts log into the request context so domain code logs through it.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if key := c.GetString(ContextIdempotencyKey); key != "" {
			fields = append(fields, "idempotency_key", key)
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", c.Errors.ByType(gin.ErrorTypePrivate).String())
			if appErr, ok := apperror.AsAppError(last.Err); ok {
				fields = append(fields, "error_code", appErr.Code)
			}
		}

		log.WithContext(c.Request.Context()).Infow("http request", fields...)
	}
}
