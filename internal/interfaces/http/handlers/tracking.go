// internal/interfaces/http/handlers/tracking.go
package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tracking"
)

// TrackingHandler handles webhook ingestion and tracking views
type TrackingHandler struct {
	tracking *tracking.Service
	config   *config.Config
	logger   *logrus.Logger
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingService *tracking.Service, cfg *config.Config, logger *logrus.Logger) *TrackingHandler {
	return &TrackingHandler{
		tracking: trackingService,
		config:   cfg,
		logger:   logger,
	}
}

// Webhook handles POST /api/webhook/rapidshyp. The carrier retries on
// non-200 responses, so deliveries are always acknowledged with 200:
// processed payloads return per-record outcomes and unparseable bodies an
// error summary. Only bad signatures are rejected.
func (h *TrackingHandler) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	// Signature verification is opt-in: RapidShyp accounts without webhook
	// signing configured deliver unsigned payloads.
	if secret := h.config.Shipping.WebhookSecret; secret != "" {
		if !verifyWebhookSignature(body, c.GetHeader("X-Webhook-Signature"), secret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}
	}

	var payload tracking.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Acknowledge anyway; a retry of a malformed body would never succeed
		// and only burns the carrier's delivery attempts.
		h.logger.WithError(err).Warn("Webhook payload is not valid JSON")
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Invalid JSON payload"})
		return
	}

	result := h.tracking.ProcessWebhook(&payload)
	c.JSON(http.StatusOK, result)
}

// PublicTrack handles GET /track/:order_id/:token. Served without
// authentication; the token is the only access control, so invalid tokens
// and unknown orders are indistinguishable to the caller.
func (h *TrackingHandler) PublicTrack(c *gin.Context) {
	view, err := h.tracking.GetPublicView(c.Param("order_id"), c.Param("token"))
	if err != nil {
		if errors.Is(err, tracking.ErrInvalidToken) || errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tracking information not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tracking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

// Track handles GET /admin/orders/:order_id/tracking
func (h *TrackingHandler) Track(c *gin.Context) {
	view, err := h.tracking.GetView(c.Param("order_id"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tracking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

// Refresh handles POST /admin/orders/:order_id/tracking/refresh. Pulls the
// latest scans from the carrier API as a fallback for delayed webhooks.
func (h *TrackingHandler) Refresh(c *gin.Context) {
	outcome, err := h.tracking.Refresh(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tracking refreshed",
		"data":    outcome,
	})
}

func verifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
