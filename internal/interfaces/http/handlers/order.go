// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/domain/customer"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders    *order.Service
	customers *customer.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, customers *customer.Service) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		customers: customers,
	}
}

// CreateOrder handles POST /orders. Guest checkout is allowed: when the
// request is unauthenticated the customer row is resolved (or created) from
// the contact details on the order.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if customerID, ok := middleware.GetUserIDFromContext(c); ok {
		req.CustomerID = &customerID
	} else {
		cust, err := h.customers.EnsureForCheckout(req.CustomerName, req.Email, req.Phone)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve customer"})
			return
		}
		req.CustomerID = &cust.ID
	}

	created, err := h.orders.Create(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// order_id is duplicated at the top level so storefronts do not have to
	// dig into the envelope for the one field every caller needs.
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order created successfully",
		"order_id": created.OrderID,
		"data":     created,
	})
}

// MyOrders handles GET /orders (the authenticated customer's orders)
func (h *OrderHandler) MyOrders(c *gin.Context) {
	customerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orders, err := h.orders.ListByCustomer(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// CancelOrder handles PUT /orders/:order_id/cancel (customer-initiated)
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	customerID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orderID := c.Param("order_id")

	o, err := h.orders.GetByOrderID(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if o.CustomerID == nil || *o.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.orders.Cancel(orderID, req.Reason)
	if err != nil {
		if errors.Is(err, order.ErrNotCancellable) {
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    cancelled,
	})
}

// --- ADMIN ENDPOINTS ---

// AdminListOrders handles GET /admin/orders
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	response, err := h.orders.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}

// AdminGetOrder handles GET /admin/orders/:order_id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	o, err := h.orders.GetByOrderID(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": o})
}

// AdminUpdateStatus handles PUT /admin/orders/:order_id/status
func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	var req struct {
		Status  order.Status `json:"status" binding:"required"`
		Comment string       `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orders.TransitionStatus(c.Param("order_id"), req.Status, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    updated,
	})
}

// AdminShipOrder handles POST /admin/orders/:order_id/ship
func (h *OrderHandler) AdminShipOrder(c *gin.Context) {
	var req order.ShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.orders.Ship(c.Request.Context(), c.Param("order_id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrAlreadyShipped):
			c.JSON(http.StatusConflict, gin.H{"error": "Order already has a shipment"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipment created successfully",
		"data":    result,
	})
}

// AdminCancelOrder handles PUT /admin/orders/:order_id/cancel
func (h *OrderHandler) AdminCancelOrder(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cancelled, err := h.orders.Cancel(c.Param("order_id"), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    cancelled,
	})
}
