// internal/interfaces/http/handlers/report.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/domain/report"
)

// ReportHandler handles admin sales and GST filing reports
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Sales handles GET /admin/reports/sales. With format=csv the report is
// returned as a downloadable file.
func (h *ReportHandler) Sales(c *gin.Context) {
	var req report.SalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	salesReport, err := h.reports.Sales(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build sales report"})
		return
	}

	if c.Query("format") == "csv" {
		data, err := h.reports.SalesCSV(salesReport)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render CSV"})
			return
		}
		filename := fmt.Sprintf("sales-report-%s.csv", time.Now().Format("20060102"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", data)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": salesReport})
}

// GSTR1 handles GET /admin/reports/gstr1?start_date=&end_date=
func (h *ReportHandler) GSTR1(c *gin.Context) {
	gstr1, err := h.reports.GSTR1(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build GSTR-1 report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gstr1})
}
