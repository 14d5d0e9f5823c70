package handlers

import (
	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// PartsStockHandler handles writes to parts stock quantities.
type PartsStockHandler struct {
	*BaseHandler
	service *partsstock.Service
}

// NewPartsStockHandler creates a new parts stock handler.
func NewPartsStockHandler(base *BaseHandler, service *partsstock.Service) *PartsStockHandler {
	return &PartsStockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// SetPoolQuantity handles PUT /parts-stock/pool-quantity
func (h *PartsStockHandler) SetPoolQuantity(c *gin.Context) {
	var req dto.SetPoolQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	edit, err := h.service.SetPoolQuantity(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPoolEdit(edit))
}

// Provision handles POST /parts-stock/provision
func (h *PartsStockHandler) Provision(c *gin.Context) {
	var req dto.ProvisionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Provision(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.ProvisionResponse{Created: created})
}
