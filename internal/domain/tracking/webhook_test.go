// internal/domain/tracking/webhook_test.go
package tracking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

func TestNormalize_NestedPayload(t *testing.T) {
	body := `{
		"records": [
			{
				"seller_order_id": "VJ-20260815-A1B2C3",
				"shipment_details": [
					{
						"awb": "AWB123",
						"shipment_status": "IN_TRANSIT",
						"courier_name": "Delhivery",
						"track_scans": [
							{
								"scan": "Shipment picked up",
								"scan_location": "Jaipur_Hub",
								"scan_datetime": "2026-08-15 14:32:00",
								"rapidshyp_status_code": "PUC"
							},
							{
								"scan": "In transit",
								"scan_location": "Delhi_Hub",
								"scan_datetime": "2026-08-16 03:10:00",
								"rapidshyp_status_code": "INT"
							}
						]
					}
				]
			}
		]
	}`

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	events := payload.Normalize()
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "VJ-20260815-A1B2C3", e.SellerOrderID)
	assert.Equal(t, "AWB123", e.AWB)
	assert.Equal(t, "IN_TRANSIT", e.CarrierStatus)
	assert.Equal(t, "Delhivery", e.CourierName)
	require.Len(t, e.Scans, 2)
	assert.Equal(t, order.TrackScan{
		Status:     "Shipment picked up",
		StatusCode: "PUC",
		Location:   "Jaipur_Hub",
		Timestamp:  "2026-08-15 14:32:00",
	}, e.Scans[0])
}

func TestNormalize_FlatLegacyPayload(t *testing.T) {
	body := `{
		"awb": "AWB999",
		"order_id": "VJ-1",
		"status": "DEL",
		"scans": [
			{"scan": "Delivered", "scan_location": "Mumbai", "scan_datetime": "2026-08-20 11:00:00", "rapidshyp_status_code": "DEL"}
		]
	}`

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	events := payload.Normalize()
	require.Len(t, events, 1)
	assert.Equal(t, "AWB999", events[0].AWB)
	assert.Equal(t, "VJ-1", events[0].SellerOrderID)
	assert.Equal(t, "DEL", events[0].CarrierStatus)
	assert.Len(t, events[0].Scans, 1)
}

func TestNormalize_FlatAlternateFieldNames(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(`{"awb_number": "AWB7", "current_status": "OFD"}`), &payload))

	events := payload.Normalize()
	require.Len(t, events, 1)
	assert.Equal(t, "AWB7", events[0].AWB)
	assert.Equal(t, "OFD", events[0].CarrierStatus)
	assert.True(t, events[0].Identified())
}

func TestNormalize_EmptyPayload(t *testing.T) {
	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))

	assert.Empty(t, payload.Normalize())
}

func TestNormalize_StatusCodeFallback(t *testing.T) {
	var payload WebhookPayload
	body := `{
		"records": [
			{
				"seller_order_id": "VJ-2",
				"shipment_details": [
					{"awb": "AWB2", "current_tracking_status_code": "OFD"}
				]
			}
		]
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	events := payload.Normalize()
	require.Len(t, events, 1)
	assert.Equal(t, "OFD", events[0].CarrierStatus)
}

func TestStepNumber(t *testing.T) {
	assert.Equal(t, 1, StepNumber(order.StatusPending))
	assert.Equal(t, 2, StepNumber(order.StatusPacked))
	assert.Equal(t, 3, StepNumber(order.StatusShipped))
	assert.Equal(t, 4, StepNumber(order.StatusInTransit))
	assert.Equal(t, 5, StepNumber(order.StatusOutForDelivery))
	assert.Equal(t, 6, StepNumber(order.StatusDelivered))
	assert.Equal(t, 1, StepNumber(order.StatusRTO))
}

func TestSteps(t *testing.T) {
	o := &order.Order{Status: order.StatusInTransit, AWBNumber: "AWB5"}

	steps := Steps(o)
	require.Len(t, steps, 6)
	assert.True(t, steps[2].Completed)
	assert.Contains(t, steps[2].Description, "AWB5")
	assert.True(t, steps[3].Active)
	assert.False(t, steps[4].Completed)
}
