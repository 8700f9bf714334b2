// internal/interfaces/http/handlers/gateway.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/domain/gateway"
)

// GatewayHandler handles admin payment gateway management
type GatewayHandler struct {
	gateways *gateway.Service
}

// NewGatewayHandler creates a new gateway handler
func NewGatewayHandler(gateways *gateway.Service) *GatewayHandler {
	return &GatewayHandler{gateways: gateways}
}

// List handles GET /admin/gateways. Sensitive credential values are masked.
func (h *GatewayHandler) List(c *gin.Context) {
	gateways, err := h.gateways.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve gateways"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gateways})
}

// Create handles POST /admin/gateways
func (h *GatewayHandler) Create(c *gin.Context) {
	var req gateway.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.gateways.Create(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Gateway created successfully",
		"data":    created,
	})
}

// Update handles PUT /admin/gateways/:id
func (h *GatewayHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gateway ID"})
		return
	}

	var req gateway.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.gateways.Update(uint(id), &req)
	if err != nil {
		if errors.Is(err, gateway.ErrGatewayNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gateway not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Gateway updated successfully",
		"data":    updated,
	})
}

// Delete handles DELETE /admin/gateways/:id
func (h *GatewayHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gateway ID"})
		return
	}

	if err := h.gateways.Delete(uint(id)); err != nil {
		if errors.Is(err, gateway.ErrGatewayNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gateway not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete gateway"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gateway deleted successfully"})
}
