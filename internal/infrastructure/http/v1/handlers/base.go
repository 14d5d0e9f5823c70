package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/infrastructure/http/v1/middleware"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/pkg/logger"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// CompleteIdempotency marks idempotency key as completed with the same HTTP semantics
// (status code + content type + body) for correct replay.
func (h *BaseHandler) CompleteIdempotency(c *gin.Context, statusCode int, contentType string, response any) {
	key := c.GetString(middleware.ContextIdempotencyKey)
	if key == "" {
		return
	}
	v, ok := c.Get(middleware.ContextIdempotencyStore)
	if !ok {
		return
	}
	store, ok := v.(idempotency.Store)
	if !ok {
		return
	}
	if err := store.CompleteKey(c.Request.Context(), key, statusCode, contentType, response); err != nil {
		logger.Warn(c.Request.Context(), "failed to complete idempotency key",
			"key", key,
			"error", err,
		)
	}
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	h.CompleteIdempotency(c, http.StatusOK, "application/json", data)
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", data)
	c.JSON(http.StatusCreated, data)
}
