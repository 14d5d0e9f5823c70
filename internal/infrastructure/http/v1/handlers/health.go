package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessChecker reports whether a backing store can serve traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checks  map[string]ReadinessChecker
	storage string
	version string
}

// NewHealthHandler creates a health handler. storage names the active backend
// ("postgres" or "memory") and is reported by Info.
func NewHealthHandler(storage, version string, checks map[string]ReadinessChecker) *HealthHandler {
	return &HealthHandler{checks: checks, storage: storage, version: version}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ready(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = "unhealthy: " + err.Error()
			continue
		}
		results[name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "repairdesk",
		"version": h.version,
		"storage": h.storage,
	})
}
