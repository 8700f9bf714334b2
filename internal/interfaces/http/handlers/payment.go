// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/varahajewels/ecommerce-backend/internal/domain/gateway"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/payment"
)

// PaymentHandler handles Razorpay checkout and verification
type PaymentHandler struct {
	razorpay *payment.RazorpayService
	gateways *gateway.Service
	orders   *order.Service
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(razorpay *payment.RazorpayService, gateways *gateway.Service, orders *order.Service, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		razorpay: razorpay,
		gateways: gateways,
		orders:   orders,
		logger:   logger,
	}
}

// CreateCheckout handles POST /payment/checkout. The gateway order is
// created before the store order exists; the receipt ties the two together
// once the payment is verified.
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var req struct {
		Amount  float64 `json:"amount" binding:"required,gt=0"`
		Receipt string  `json:"receipt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	checkout, err := h.razorpay.CreateCheckoutOrder(c.Request.Context(), req.Receipt, req.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrGatewayNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Online payment is not available"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": checkout})
}

// VerifyPayment handles POST /payment/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req payment.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.razorpay.VerifyPayment(&req); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{
				"verified": false,
				"error":    "Payment signature verification failed",
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment verification unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": true,
		"message":  "Payment verified successfully",
	})
}

// razorpayWebhookEvent is the subset of the webhook body the handler acts on
type razorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Notes   struct {
					StoreOrderID string `json:"store_order_id"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook handles POST /api/webhook/razorpay. The signature is verified
// against the webhook secret stored on the active gateway, so secret
// rotation takes effect without a restart.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	active, err := h.gateways.GetActive()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No payment gateway configured"})
		return
	}
	secret := active.Credentials["webhook_secret"]
	if secret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook secret not configured"})
		return
	}

	if err := h.razorpay.VerifyWebhookSignature(body, c.GetHeader("X-Razorpay-Signature"), secret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var event razorpayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if event.Event == "payment.captured" {
		if storeOrderID := event.Payload.Payment.Entity.Notes.StoreOrderID; storeOrderID != "" {
			if _, err := h.orders.TransitionStatus(storeOrderID, order.StatusPaid, "Payment captured via webhook"); err != nil {
				h.logger.WithError(err).WithField("order_id", storeOrderID).
					Warn("Failed to mark order paid from payment webhook")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
