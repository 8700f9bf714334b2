// internal/interfaces/http/handlers/monitor.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/pkg/monitor"
)

// MonitorHandler serves the in-process metrics snapshot
type MonitorHandler struct {
	collector *monitor.Collector
}

// NewMonitorHandler creates a new monitor handler
func NewMonitorHandler(collector *monitor.Collector) *MonitorHandler {
	return &MonitorHandler{collector: collector}
}

// Snapshot handles GET /admin/monitor
func (h *MonitorHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.collector.Snapshot()})
}
