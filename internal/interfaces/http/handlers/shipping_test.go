// internal/interfaces/http/handlers/shipping_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
)

type fakeAggregator struct {
	shipping.Client

	created *shipping.CreatePickupLocationRequest
}

func (f *fakeAggregator) CreatePickupLocation(_ context.Context, req *shipping.CreatePickupLocationRequest) (*shipping.PickupLocationsResponse, error) {
	f.created = req
	return &shipping.PickupLocationsResponse{
		Status: "success",
		Data:   []shipping.PickupLocation{{Nickname: req.Nickname, PinCode: req.PinCode}},
	}, nil
}

func pickupRouter(fake *fakeAggregator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewShippingHandler(fake, &config.Config{})

	r := gin.New()
	r.POST("/admin/shipping/pickup-locations", h.CreatePickupLocation)
	return r
}

func TestCreatePickupLocation(t *testing.T) {
	fake := &fakeAggregator{}
	r := pickupRouter(fake)

	body := `{
		"pickup_location_nickname": "Jaipur Warehouse",
		"contact_name": "Store Admin",
		"phone": "9876543210",
		"address": "12 Johari Bazaar",
		"pin_code": "302003",
		"city": "Jaipur",
		"state": "Rajasthan"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/shipping/pickup-locations", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, fake.created)
	assert.Equal(t, "Jaipur Warehouse", fake.created.Nickname)
	assert.Equal(t, "302003", fake.created.PinCode)
}

func TestCreatePickupLocation_RejectsIncompleteAddress(t *testing.T) {
	fake := &fakeAggregator{}
	r := pickupRouter(fake)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/shipping/pickup-locations", strings.NewReader(`{"pickup_location_nickname":"x"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, fake.created)
}
