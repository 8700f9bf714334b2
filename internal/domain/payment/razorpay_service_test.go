// internal/domain/payment/razorpay_service_test.go
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/varahajewels/ecommerce-backend/internal/domain/gateway"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupPayment(t *testing.T, withGateway bool) (*RazorpayService, *gateway.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&gateway.Gateway{}))

	gateways := gateway.NewService(db)
	if withGateway {
		_, err := gateways.Create(&gateway.CreateRequest{
			Name:     "Primary Razorpay",
			Provider: "razorpay",
			Credentials: gateway.Credentials{
				"key_id":     "rzp_test_key",
				"key_secret": "rzp_test_secret",
			},
			IsActive: true,
		})
		require.NoError(t, err)
	}

	return NewRazorpayService(gateways, testLogger()), gateways
}

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCheckoutOrder(t *testing.T) {
	svc, _ := setupPayment(t, true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var req razorpayOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(103000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "VJ-20260815-ABC123", req.Receipt)

		json.NewEncoder(w).Encode(razorpayOrderResponse{
			ID: "order_Nxyz1", Amount: req.Amount, Currency: "INR", Status: "created",
		})
	}))
	defer server.Close()
	svc.baseURL = server.URL

	checkout, err := svc.CreateCheckoutOrder(context.Background(), "VJ-20260815-ABC123", 1030)
	require.NoError(t, err)
	assert.Equal(t, "order_Nxyz1", checkout.RazorpayOrderID)
	assert.Equal(t, "rzp_test_key", checkout.KeyID)
	assert.Equal(t, 1030.0, checkout.Amount)
}

func TestCreateCheckoutOrder_APIError(t *testing.T) {
	svc, _ := setupPayment(t, true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer server.Close()
	svc.baseURL = server.URL

	_, err := svc.CreateCheckoutOrder(context.Background(), "VJ-1", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestCreateCheckoutOrder_NoGateway(t *testing.T) {
	svc, _ := setupPayment(t, false)

	_, err := svc.CreateCheckoutOrder(context.Background(), "VJ-1", 100)
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestVerifyPayment(t *testing.T) {
	svc, _ := setupPayment(t, true)

	req := &VerifyRequest{
		RazorpayOrderID:   "order_Nxyz1",
		RazorpayPaymentID: "pay_Nabc2",
		RazorpaySignature: sign("order_Nxyz1", "pay_Nabc2", "rzp_test_secret"),
	}
	require.NoError(t, svc.VerifyPayment(req))

	req.RazorpaySignature = sign("order_Nxyz1", "pay_Nabc2", "wrong_secret")
	assert.ErrorIs(t, svc.VerifyPayment(req), ErrInvalidSignature)

	req.RazorpaySignature = "not-even-hex"
	assert.ErrorIs(t, svc.VerifyPayment(req), ErrInvalidSignature)
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc, _ := setupPayment(t, true)

	body := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	require.NoError(t, svc.VerifyWebhookSignature(body, signature, "whsec"))
	assert.ErrorIs(t, svc.VerifyWebhookSignature(body, signature, "other"), ErrInvalidSignature)
}

func TestVerifyPaymentUsesRotatedSecret(t *testing.T) {
	svc, gateways := setupPayment(t, true)

	g, err := gateways.GetActive()
	require.NoError(t, err)
	_, err = gateways.Update(g.ID, &gateway.UpdateRequest{
		IsActive: true,
		Credentials: gateway.Credentials{
			"key_id":     "rzp_test_key",
			"key_secret": "rotated_secret",
		},
	})
	require.NoError(t, err)

	req := &VerifyRequest{
		RazorpayOrderID:   "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: sign("order_1", "pay_1", "rotated_secret"),
	}
	assert.NoError(t, svc.VerifyPayment(req))
}
