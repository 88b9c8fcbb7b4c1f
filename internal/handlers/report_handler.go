package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/middleware"
	"github.com/hejmarcin29/panel-firma-sub007/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GET /api/reports/settlements?from=2026-01-01&to=2026-01-31
func (h *ReportHandler) ExportSettlements(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		BadRequest(c, "nieprawidłowa data początkowa")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		BadRequest(c, "nieprawidłowa data końcowa")
		return
	}
	// Include the whole end day.
	to = to.Add(24*time.Hour - time.Second)

	file, filename, err := h.reportService.ExportSettlements(from, to, middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
