// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
//
// It runs outermost, so it renders the response itself and releases any
// idempotency key the request held; the retry gets a fresh attempt.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// operation, staff_id and shop_id come from the request context
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"route", c.FullPath(),
					"idempotency_key", c.GetString(ContextIdempotencyKey),
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", err)).
					WithDetail("request_id", c.GetString("request_id"))
				_ = c.Error(appErr)
				c.Abort()
				if !c.Writer.Written() {
					writeError(c, appErr)
				}
			}
		}()
		c.Next()
	}
}
