package v1

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/infrastructure/http/v1/handlers"
	"repairdesk/internal/infrastructure/http/v1/middleware"
)

// writeMiddleware returns the middleware chain for mutating endpoints.
func writeMiddleware(cfg RouterConfig) []gin.HandlerFunc {
	if cfg.IdempotencyStore == nil {
		return nil
	}
	return []gin.HandlerFunc{middleware.Idempotency(cfg.IdempotencyStore)}
}

// withWrite appends h to the write middleware chain.
func withWrite(cfg RouterConfig, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(writeMiddleware(cfg), h)
}

// registerPricingRoutes registers quote and inventory pricing endpoints.
func registerPricingRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Pricing == nil {
		return
	}
	h := handlers.NewPricingHandler(base, cfg.Pricing)

	pricing := rg.Group("/pricing")
	pricing.POST("/buyback/quote", h.QuoteBuyback)
	pricing.POST("/resale/quote", h.QuoteResale)

	rg.POST("/inventory-items/:id/resale-price", withWrite(cfg, h.PriceInventoryItem)...)
}

// registerWarrantyRoutes registers warranty schedule endpoints.
func registerWarrantyRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Warranty == nil {
		return
	}
	h := handlers.NewWarrantyHandler(base, cfg.Warranty, cfg.Location)

	rg.GET("/warranty", h.GetState)
	rg.GET("/sales/:id/warranty", h.GetSaleState)
}

// registerPartsStockRoutes registers pool edit, provisioning and shortage endpoints.
func registerPartsStockRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	stock := rg.Group("/parts-stock")

	if cfg.PartsStock != nil {
		h := handlers.NewPartsStockHandler(base, cfg.PartsStock)
		stock.PUT("/pool-quantity", withWrite(cfg, h.SetPoolQuantity)...)
		stock.POST("/provision", withWrite(cfg, h.Provision)...)
	}

	if cfg.Shortage != nil {
		h := handlers.NewShortageHandler(base, cfg.Shortage)
		stock.GET("/shortages", h.GetReport)
		stock.GET("/shortages/export", h.Export)
	}
}

// registerPartsGroupRoutes registers the read-only pool configuration endpoint.
func registerPartsGroupRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.PartsPool == nil {
		return
	}
	h := handlers.NewPartsGroupHandler(base, cfg.PartsPool)
	rg.GET("/parts-groups", h.List)
}
