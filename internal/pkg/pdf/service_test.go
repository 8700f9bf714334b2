// internal/pkg/pdf/service_test.go
package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

func testOrder() *order.Order {
	return &order.Order{
		OrderID:      "VJ-20260815-ABC123",
		CustomerName: "Priya Sharma",
		Email:        "priya@example.com",
		Phone:        "9876543210",
		Address:      "12 MI Road",
		City:         "Jaipur",
		State:        "Rajasthan",
		Pincode:      "302001",
		TotalAmount:  1030,
		TaxableValue: 1000,
		CGSTAmount:   15,
		SGSTAmount:   15,
		HSNCode:      "7117",
		Items: []order.Item{
			{Name: "Kundan Ring", Price: 515, Quantity: 2},
		},
	}
}

func TestRenderInvoiceHTML_IntraState(t *testing.T) {
	cfg := &config.Config{}
	cfg.Tax.HomeState = "Rajasthan"
	svc := NewService(cfg)

	html, err := svc.RenderInvoiceHTML(testOrder(), "Varaha Jewels", "08CBRPC0024J1ZT")
	require.NoError(t, err)

	assert.Contains(t, html, "INV-VJ-20260815-ABC123")
	assert.Contains(t, html, "Priya Sharma")
	assert.Contains(t, html, "08CBRPC0024J1ZT")
	assert.Contains(t, html, "CGST (1.5%)")
	assert.Contains(t, html, "SGST (1.5%)")
	assert.NotContains(t, html, "IGST")
	assert.Contains(t, html, "7117")
	// Line total is price times quantity
	assert.Contains(t, html, "1030.00")
}

func TestRenderInvoiceHTML_InterState(t *testing.T) {
	cfg := &config.Config{}
	cfg.Tax.HomeState = "Rajasthan"
	svc := NewService(cfg)

	o := testOrder()
	o.State = "Maharashtra"
	o.CGSTAmount = 0
	o.SGSTAmount = 0
	o.IGSTAmount = 30

	html, err := svc.RenderInvoiceHTML(o, "Varaha Jewels", "")
	require.NoError(t, err)

	assert.Contains(t, html, "IGST (3%)")
	assert.NotContains(t, html, "CGST")
	assert.NotContains(t, html, "GSTIN")
}
