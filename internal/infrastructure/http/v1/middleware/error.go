package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			logger.Error(c.Request.Context(), "unhandled error",
				"error", err,
			)
			appErr = apperror.NewInternal(err).WithDetail("request_id", c.GetString("request_id"))
		} else if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		writeError(c, appErr)
	}
}

// writeError renders appErr and settles the request's idempotency key.
func writeError(c *gin.Context, appErr *apperror.AppError) {
	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	}
	settleIdempotency(c, appErr, body)
	c.JSON(appErr.HTTPStatus, body)
}

// settleIdempotency stores a permanent error response against the request's
// key so retries replay it. Retryable errors release the key instead.
func settleIdempotency(c *gin.Context, appErr *apperror.AppError, body any) {
	key := c.GetString(ContextIdempotencyKey)
	if key == "" {
		return
	}
	store, ok := c.Get(ContextIdempotencyStore)
	if !ok {
		return
	}
	s, ok := store.(idempotency.Store)
	if !ok || s == nil {
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	if appErr.Retryable() {
		if err := s.ReleaseKey(ctx, key); err != nil {
			logger.Warn(ctx, "failed to release idempotency key",
				"key", key,
				"code", appErr.Code,
				"error", err,
			)
		}
		return
	}
	if err := s.FailKey(ctx, key, appErr.HTTPStatus, "application/json", body); err != nil {
		logger.Warn(ctx, "failed to mark idempotency key as failed",
			"key", key,
			"error", err,
		)
	}
}
