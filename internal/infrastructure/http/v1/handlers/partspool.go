package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// PartsGroupHandler lists the pool configuration.
type PartsGroupHandler struct {
	*BaseHandler
	service *partspool.Service
}

// NewPartsGroupHandler creates a new parts group handler.
func NewPartsGroupHandler(base *BaseHandler, service *partspool.Service) *PartsGroupHandler {
	return &PartsGroupHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /parts-groups
func (h *PartsGroupHandler) List(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewItemsResponse(dto.FromPartsGroups(groups)))
}
