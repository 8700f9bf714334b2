// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/domain/coupon"
)

// CouponHandler handles discount code endpoints
type CouponHandler struct {
	coupons *coupon.Service
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *coupon.Service) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Validate handles POST /coupons/validate. When an order amount is supplied
// the response includes the discounted total.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req struct {
		Code   string  `json:"code" binding:"required"`
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cpn, err := h.coupons.Validate(req.Code)
	if err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) || errors.Is(err, coupon.ErrCouponInactive) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid coupon code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}

	resp := gin.H{"coupon": cpn}
	if req.Amount > 0 {
		resp["discounted_total"] = cpn.Apply(req.Amount)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AdminList handles GET /admin/coupons
func (h *CouponHandler) AdminList(c *gin.Context) {
	coupons, err := h.coupons.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve coupons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": coupons})
}

// AdminCreate handles POST /admin/coupons
func (h *CouponHandler) AdminCreate(c *gin.Context) {
	var req coupon.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.coupons.Create(&req)
	if err != nil {
		if errors.Is(err, coupon.ErrCodeExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    created,
	})
}

// AdminDelete handles DELETE /admin/coupons/:id
func (h *CouponHandler) AdminDelete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	if err := h.coupons.Delete(uint(id)); err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully"})
}
