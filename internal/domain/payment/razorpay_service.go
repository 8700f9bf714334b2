// internal/domain/payment/razorpay_service.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/varahajewels/ecommerce-backend/internal/domain/gateway"
)

var (
	// ErrInvalidSignature is returned when the checkout callback signature
	// does not match the expected HMAC
	ErrInvalidSignature = errors.New("payment signature verification failed")
	// ErrGatewayNotConfigured is returned when no active gateway exists
	ErrGatewayNotConfigured = errors.New("no active payment gateway configured")
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayService creates checkout orders and verifies payment callbacks
// against the Razorpay API. Credentials come from the active gateway in the
// registry, so key rotation needs no restart.
type RazorpayService struct {
	gateways   *gateway.Service
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRazorpayService creates a new Razorpay service
func NewRazorpayService(gateways *gateway.Service, logger *logrus.Logger) *RazorpayService {
	return &RazorpayService{
		gateways: gateways,
		baseURL:  razorpayBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// CheckoutOrder is the Razorpay order handed to the frontend checkout widget
type CheckoutOrder struct {
	RazorpayOrderID string  `json:"razorpay_order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	KeyID           string  `json:"key_id"`
}

// VerifyRequest carries the checkout callback fields
type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (s *RazorpayService) credentials() (keyID, keySecret string, err error) {
	g, err := s.gateways.GetActive()
	if err != nil {
		if errors.Is(err, gateway.ErrNoActiveGateway) {
			return "", "", ErrGatewayNotConfigured
		}
		return "", "", err
	}
	keyID = g.Credentials["key_id"]
	keySecret = g.Credentials["key_secret"]
	if keyID == "" || keySecret == "" {
		return "", "", ErrGatewayNotConfigured
	}
	return keyID, keySecret, nil
}

// CreateCheckoutOrder registers an order with Razorpay and returns the
// fields the frontend widget needs. Amount is in rupees; Razorpay wants
// paise.
func (s *RazorpayService) CreateCheckoutOrder(ctx context.Context, receipt string, amount float64) (*CheckoutOrder, error) {
	keyID, keySecret, err := s.credentials()
	if err != nil {
		return nil, err
	}

	reqBody := razorpayOrderRequest{
		Amount:   int64(amount * 100),
		Currency: "INR",
		Receipt:  receipt,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal razorpay order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/orders", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay request: %w", err)
	}
	req.SetBasicAuth(keyID, keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		s.logger.WithFields(logrus.Fields{
			"status":  resp.StatusCode,
			"receipt": receipt,
		}).Error("Razorpay order creation failed")
		return nil, fmt.Errorf("razorpay returned status %d: %s", resp.StatusCode, string(body))
	}

	var rzpOrder razorpayOrderResponse
	if err := json.Unmarshal(body, &rzpOrder); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay response: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"razorpay_order_id": rzpOrder.ID,
		"receipt":           receipt,
		"amount":            amount,
	}).Info("Razorpay checkout order created")

	return &CheckoutOrder{
		RazorpayOrderID: rzpOrder.ID,
		Amount:          amount,
		Currency:        rzpOrder.Currency,
		KeyID:           keyID,
	}, nil
}

// VerifyPayment checks the callback signature. Razorpay signs
// "<order_id>|<payment_id>" with the key secret using HMAC-SHA256.
func (s *RazorpayService) VerifyPayment(req *VerifyRequest) error {
	_, keySecret, err := s.credentials()
	if err != nil {
		return err
	}
	return verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, keySecret)
}

// VerifyWebhookSignature validates the X-Razorpay-Signature header on
// webhook deliveries against the raw request body.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature, webhookSecret string) error {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func verifySignature(orderID, paymentID, signature, secret string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
