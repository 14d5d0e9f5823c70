// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/domain/shortage"
	"repairdesk/internal/domain/warranty"
	"repairdesk/internal/infrastructure/http/v1/handlers"
	"repairdesk/internal/infrastructure/http/v1/middleware"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	Pricing    *pricing.Service
	Warranty   *warranty.Service
	PartsStock *partsstock.Service
	Shortage   *shortage.Service
	PartsPool  *partspool.Service

	// IdempotencyStore backs X-Idempotency-Key on write endpoints. Nil disables it.
	IdempotencyStore idempotency.Store

	// HealthChecks are probed by /health/ready
	HealthChecks map[string]handlers.ReadinessChecker

	// Storage names the active backend for /health/info
	Storage string
	Version string

	// Location is the business time zone used for calendar dates in queries
	Location *time.Location
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Storage, cfg.Version, cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.StaffContext())
	{
		base := handlers.NewBaseHandler()

		registerPricingRoutes(v1, base, cfg)
		registerWarrantyRoutes(v1, base, cfg)
		registerPartsStockRoutes(v1, base, cfg)
		registerPartsGroupRoutes(v1, base, cfg)
	}

	return router
}
