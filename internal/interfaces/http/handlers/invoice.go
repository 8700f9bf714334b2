// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/settings"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/pdf"
)

// InvoiceHandler generates GST invoices for orders
type InvoiceHandler struct {
	orders   *order.Service
	settings *settings.Service
	pdf      *pdf.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orders *order.Service, settingsService *settings.Service, pdfService *pdf.Service) *InvoiceHandler {
	return &InvoiceHandler{
		orders:   orders,
		settings: settingsService,
		pdf:      pdfService,
	}
}

// Download handles GET /admin/orders/:order_id/invoice
func (h *InvoiceHandler) Download(c *gin.Context) {
	o, err := h.orders.GetByOrderID(c.Param("order_id"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	storeName := "Varaha Jewels"
	gstin := ""
	if s, err := h.settings.Get(); err == nil {
		storeName = s.StoreName
		gstin = s.GSTIN
	}

	buf, err := h.pdf.GenerateInvoice(o, storeName, gstin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", o.OrderID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
