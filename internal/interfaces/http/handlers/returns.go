// internal/interfaces/http/handlers/returns.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/interfaces/http/middleware"
)

// ReturnHandler handles return requests and the admin return workflow
type ReturnHandler struct {
	orders *order.Service
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(orders *order.Service) *ReturnHandler {
	return &ReturnHandler{orders: orders}
}

// CreateReturn handles POST /returns (authenticated customer)
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	customerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req order.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.orders.CreateReturn(customerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrReturnExists):
			c.JSON(http.StatusConflict, gin.H{"error": "A return already exists for this order"})
		case errors.Is(err, order.ErrReturnNotEligible), errors.Is(err, order.ErrReturnWindowExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create return request"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Return request created successfully",
		"data":    created,
	})
}

// MyReturns handles GET /returns (authenticated customer)
func (h *ReturnHandler) MyReturns(c *gin.Context) {
	customerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	returns, err := h.orders.ListCustomerReturns(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve returns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": returns})
}

// --- ADMIN ENDPOINTS ---

// AdminListReturns handles GET /admin/returns?status=
func (h *ReturnHandler) AdminListReturns(c *gin.Context) {
	status := order.ReturnStatus(c.Query("status"))

	returns, err := h.orders.ListReturns(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve returns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": returns})
}

// AdminUpdateReturn handles PUT /admin/returns/:id
func (h *ReturnHandler) AdminUpdateReturn(c *gin.Context) {
	returnID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return ID"})
		return
	}

	var req order.UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orders.UpdateReturn(uint(returnID), &req)
	if err != nil {
		if errors.Is(err, order.ErrReturnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Return not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Return updated successfully",
		"data":    updated,
	})
}

// AdminProcessRefund handles POST /admin/returns/:id/refund
func (h *ReturnHandler) AdminProcessRefund(c *gin.Context) {
	returnID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return ID"})
		return
	}

	processed, err := h.orders.ProcessRefund(uint(returnID))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrReturnNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Return not found"})
		case errors.Is(err, order.ErrReturnNotApproved):
			c.JSON(http.StatusConflict, gin.H{"error": "Return must be approved before refund"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process refund"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Refund processed successfully",
		"data":    processed,
	})
}

// AdminCreateReturnShipment handles POST /admin/returns/:id/shipment
func (h *ReturnHandler) AdminCreateReturnShipment(c *gin.Context) {
	returnID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return ID"})
		return
	}

	updated, err := h.orders.CreateReturnShipment(c.Request.Context(), uint(returnID))
	if err != nil {
		if errors.Is(err, order.ErrReturnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Return not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Return pickup scheduled successfully",
		"data":    updated,
	})
}
