package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/warranty"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// WarrantyHandler exposes the refund/repair schedule of sold devices.
type WarrantyHandler struct {
	*BaseHandler
	service  *warranty.Service
	location *time.Location
}

// NewWarrantyHandler creates a new warranty handler. Calendar dates in queries
// are read in loc (the shops' business time zone).
func NewWarrantyHandler(base *BaseHandler, service *warranty.Service, loc *time.Location) *WarrantyHandler {
	if loc == nil {
		loc = time.Local
	}
	return &WarrantyHandler{
		BaseHandler: base,
		service:     service,
		location:    loc,
	}
}

// GetState handles GET /warranty?saleDate=&asOf=
func (h *WarrantyHandler) GetState(c *gin.Context) {
	var req dto.WarrantyRequest
	if !h.BindQuery(c, &req) {
		return
	}

	saleDate, err := dto.ParseDate("saleDate", req.SaleDate, h.location)
	if err != nil {
		h.Error(c, err)
		return
	}

	var asOf *time.Time
	if req.AsOf != "" {
		t, err := dto.ParseDate("asOf", req.AsOf, h.location)
		if err != nil {
			h.Error(c, err)
			return
		}
		asOf = &t
	}

	h.OK(c, dto.FromWarrantyState(h.service.GetWarrantyState(saleDate, asOf)))
}

// GetSaleState handles GET /sales/:id/warranty
func (h *WarrantyHandler) GetSaleState(c *gin.Context) {
	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid sale line id format"))
		return
	}

	state, err := h.service.StateForSale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromWarrantyState(state))
}
