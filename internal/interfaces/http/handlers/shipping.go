// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
)

// ShippingHandler exposes carrier serviceability and pickup locations
type ShippingHandler struct {
	client shipping.Client
	config *config.Config
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(client shipping.Client, cfg *config.Config) *ShippingHandler {
	return &ShippingHandler{
		client: client,
		config: cfg,
	}
}

// serviceabilityResponse is the storefront-facing answer
type serviceabilityResponse struct {
	Available bool   `json:"available"`
	Date      string `json:"date,omitempty"`
	COD       bool   `json:"cod"`
	Message   string `json:"message"`
}

func simpleServiceability(available bool, date string, cod bool) serviceabilityResponse {
	message := "Service not available"
	if available {
		message = "Service available"
	}
	return serviceabilityResponse{
		Available: available,
		Date:      date,
		COD:       cod,
		Message:   message,
	}
}

// CheckServiceability handles POST /shipping/serviceability. The pickup
// pincode defaults to the configured warehouse. With the aggregator disabled
// a simulated five-day estimate is returned so checkout keeps working in
// development.
func (h *ShippingHandler) CheckServiceability(c *gin.Context) {
	var req struct {
		PickupPincode   string  `json:"pickup_pincode"`
		DeliveryPincode string  `json:"delivery_pincode" binding:"required"`
		COD             bool    `json:"cod"`
		OrderValue      float64 `json:"order_value"`
		Weight          float64 `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if req.PickupPincode == "" {
		req.PickupPincode = h.config.Shipping.PickupPincode
	}
	if req.Weight <= 0 {
		req.Weight = 0.5
	}

	if !h.config.Shipping.RapidShypEnabled {
		date := time.Now().AddDate(0, 0, 5).Format("02 Jan, Mon")
		c.JSON(http.StatusOK, gin.H{"data": simpleServiceability(true, date, true)})
		return
	}

	resp, err := h.client.CheckServiceability(c.Request.Context(), &shipping.ServiceabilityRequest{
		PickupPincode:   req.PickupPincode,
		DeliveryPincode: req.DeliveryPincode,
		COD:             req.COD,
		TotalOrderValue: req.OrderValue,
		Weight:          req.Weight,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Serviceability check failed"})
		return
	}

	couriers := resp.Couriers()
	if len(couriers) == 0 {
		c.JSON(http.StatusOK, gin.H{"data": simpleServiceability(false, "", false)})
		return
	}

	best := couriers[0]
	cod := true
	if best.COD != nil {
		cod = *best.COD
	}
	c.JSON(http.StatusOK, gin.H{"data": simpleServiceability(true, formatEDD(best.EDD), cod)})
}

// formatEDD reformats the aggregator's estimated delivery date for display.
// The aggregator is inconsistent about date formats; unrecognized values
// pass through verbatim.
func formatEDD(edd string) string {
	for _, layout := range []string{"2006-01-02", "02-01-2006"} {
		if d, err := time.Parse(layout, edd); err == nil {
			return d.Format("02 Jan, Mon")
		}
	}
	return edd
}

// PickupLocations handles GET /admin/shipping/pickup-locations
func (h *ShippingHandler) PickupLocations(c *gin.Context) {
	resp, err := h.client.GetPickupLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch pickup locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CreatePickupLocation handles POST /admin/shipping/pickup-locations,
// registering a new warehouse with the aggregator.
func (h *ShippingHandler) CreatePickupLocation(c *gin.Context) {
	var req struct {
		Nickname    string `json:"pickup_location_nickname" binding:"required"`
		ContactName string `json:"contact_name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		Email       string `json:"email"`
		Address     string `json:"address" binding:"required"`
		PinCode     string `json:"pin_code" binding:"required"`
		City        string `json:"city" binding:"required"`
		State       string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.client.CreatePickupLocation(c.Request.Context(), &shipping.CreatePickupLocationRequest{
		Nickname:    req.Nickname,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		PinCode:     req.PinCode,
		City:        req.City,
		State:       req.State,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create pickup location"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pickup location created successfully",
		"data":    resp,
	})
}
