package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/pricing"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// PricingHandler handles buyback and resale quotes.
type PricingHandler struct {
	*BaseHandler
	service *pricing.Service
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(base *BaseHandler, service *pricing.Service) *PricingHandler {
	return &PricingHandler{
		BaseHandler: base,
		service:     service,
	}
}

// QuoteBuyback handles POST /pricing/buyback/quote
func (h *PricingHandler) QuoteBuyback(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.service.QuoteBuyback(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromQuote(quote))
}

// QuoteResale handles POST /pricing/resale/quote
func (h *PricingHandler) QuoteResale(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.service.QuoteResale(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromQuote(quote))
}

// PriceInventoryItem handles POST /inventory-items/:id/resale-price
func (h *PricingHandler) PriceInventoryItem(c *gin.Context) {
	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid inventory item id format"))
		return
	}

	priced, err := h.service.PriceInventoryItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPricedItem(priced))
}
