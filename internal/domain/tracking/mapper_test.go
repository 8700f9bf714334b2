// internal/domain/tracking/mapper_test.go
package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

func TestMapCarrierStatus_ShortCodes(t *testing.T) {
	tests := []struct {
		code     string
		expected order.Status
	}{
		{"PSH", order.StatusPacked},
		{"PUC", order.StatusShipped},
		{"SPD", order.StatusShipped},
		{"INT", order.StatusInTransit},
		{"RAD", order.StatusInTransit},
		{"OFD", order.StatusOutForDelivery},
		{"DEL", order.StatusDelivered},
		{"DELIVERED", order.StatusDelivered},
		{"RTO", order.StatusRTO},
		{"RTO_INT", order.StatusRTO},
		{"RTO_OFD", order.StatusRTO},
		{"RTO_DEL", order.StatusRTODelivered},
		{"UND", order.StatusUndelivered},
	}

	for _, tt := range tests {
		status, ok := MapCarrierStatus(tt.code)
		assert.True(t, ok, "code %s should be mapped", tt.code)
		assert.Equal(t, tt.expected, status, "code %s", tt.code)
	}
}

func TestMapCarrierStatus_LongFormNames(t *testing.T) {
	tests := []struct {
		name     string
		expected order.Status
	}{
		{"ORDER_PLACED", order.StatusOrdered},
		{"PICKUP_SCHEDULED", order.StatusPacked},
		{"MANIFESTED", order.StatusPacked},
		{"PICKED_UP", order.StatusShipped},
		{"IN_TRANSIT", order.StatusInTransit},
		{"REACHED_DESTINATION_HUB", order.StatusInTransit},
		{"OUT_FOR_DELIVERY", order.StatusOutForDelivery},
		{"RTO_INITIATED", order.StatusRTO},
		{"CANCELLED", order.StatusCancelled},
	}

	for _, tt := range tests {
		status, ok := MapCarrierStatus(tt.name)
		assert.True(t, ok, "name %s should be mapped", tt.name)
		assert.Equal(t, tt.expected, status, "name %s", tt.name)
	}
}

func TestMapCarrierStatus_CaseInsensitive(t *testing.T) {
	status, ok := MapCarrierStatus("del")
	assert.True(t, ok)
	assert.Equal(t, order.StatusDelivered, status)

	status, ok = MapCarrierStatus(" picked_up ")
	assert.True(t, ok)
	assert.Equal(t, order.StatusShipped, status)
}

func TestMapCarrierStatus_Unmapped(t *testing.T) {
	_, ok := MapCarrierStatus("WAREHOUSE_HOLD")
	assert.False(t, ok)

	_, ok = MapCarrierStatus("")
	assert.False(t, ok)
}
