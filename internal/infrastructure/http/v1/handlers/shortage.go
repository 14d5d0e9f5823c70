package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/domain/shortage"
	"repairdesk/internal/infrastructure/export"
	"repairdesk/internal/infrastructure/http/v1/dto"
)

// ShortageHandler handles HTTP requests for shortage reports.
type ShortageHandler struct {
	*BaseHandler
	service *shortage.Service
	now     func() time.Time
}

// NewShortageHandler creates a new shortage handler.
func NewShortageHandler(base *BaseHandler, service *shortage.Service) *ShortageHandler {
	return &ShortageHandler{
		BaseHandler: base,
		service:     service,
		now:         time.Now,
	}
}

func (h *ShortageHandler) report(c *gin.Context) (*shortage.Report, bool) {
	var req dto.ShortageReportRequest
	if !h.BindQuery(c, &req) {
		return nil, false
	}

	report, err := h.service.GetShortageReport(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return report, true
}

// GetReport handles GET /parts-stock/shortages
func (h *ShortageHandler) GetReport(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromShortageReport(report))
}

// Export handles GET /parts-stock/shortages/export
func (h *ShortageHandler) Export(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	data, err := export.ShortageWorkbook(report)
	if err != nil {
		h.Error(c, apperror.NewInternal(err).WithDetail("component", "export"))
		return
	}

	kind := "shops"
	if report.Cumulative {
		kind = "cumulative"
	}
	filename := fmt.Sprintf("shortage-%s-%s.xlsx", kind, h.now().Format("20060102-1504"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, data)
}
