// internal/interfaces/http/handlers/order_test.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/customer"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tax"
)

type noopNotifier struct{}

func (noopNotifier) OrderCreated(*order.Order)                             {}
func (noopNotifier) OrderStatusChanged(*order.Order, order.Status)         {}
func (noopNotifier) ReturnRequested(*order.Order, *order.Return, []string) {}

func orderRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.Return{}, &customer.Customer{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Tax: config.TaxConfig{
			HomeState:      "Rajasthan",
			GSTRate:        0.03,
			DefaultHSNCode: "7117",
		},
	}

	customers := customer.NewService(db, cfg, logger)
	orders := order.NewService(db, cfg, tax.NewCalculator(cfg), &fakeAggregator{}, noopNotifier{}, logger)
	h := NewOrderHandler(orders, customers)

	r := gin.New()
	r.POST("/api/v1/orders", h.CreateOrder)
	return r
}

func TestCreateOrderExposesOrderID(t *testing.T) {
	r := orderRouter(t)

	body := `{
		"customer_name": "Priya Sharma",
		"email": "priya@example.com",
		"phone": "9876543210",
		"address": "14 Johari Bazaar, Pink City",
		"city": "Jaipur",
		"state": "Rajasthan",
		"pincode": "302003",
		"items": [{"product_id": "ring-01", "name": "Kundan Ring", "price": 515, "quantity": 2}],
		"total_amount": 1030
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OrderID string `json:"order_id"`
		Data    struct {
			OrderID string `json:"order_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.OrderID, "VJ-"), "order_id = %q", resp.OrderID)
	assert.Equal(t, resp.Data.OrderID, resp.OrderID)
}
