// internal/domain/tracking/mapper.go
package tracking

import (
	"strings"

	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

// statusCodeMap maps RapidShyp short status codes to internal order statuses
var statusCodeMap = map[string]order.Status{
	"PSH":       order.StatusPacked,
	"PUC":       order.StatusShipped,
	"SPD":       order.StatusShipped,
	"INT":       order.StatusInTransit,
	"RAD":       order.StatusInTransit,
	"OFD":       order.StatusOutForDelivery,
	"DEL":       order.StatusDelivered,
	"DELIVERED": order.StatusDelivered,
	"RTO":       order.StatusRTO,
	"RTO_INT":   order.StatusRTO,
	"RTO_OFD":   order.StatusRTO,
	"RTO_DEL":   order.StatusRTODelivered,
	"UND":       order.StatusUndelivered,
}

// statusNameMap maps RapidShyp long-form status names to internal statuses
var statusNameMap = map[string]order.Status{
	"ORDER_PLACED":            order.StatusOrdered,
	"PICKUP_SCHEDULED":        order.StatusPacked,
	"PICKUP_GENERATED":        order.StatusPacked,
	"READY_TO_SHIP":           order.StatusPacked,
	"MANIFESTED":              order.StatusPacked,
	"PICKED_UP":               order.StatusShipped,
	"IN_TRANSIT":              order.StatusInTransit,
	"REACHED_DESTINATION_HUB": order.StatusInTransit,
	"OUT_FOR_DELIVERY":        order.StatusOutForDelivery,
	"RTO_INITIATED":           order.StatusRTO,
	"RTO_DELIVERED":           order.StatusRTODelivered,
	"CANCELLED":               order.StatusCancelled,
}

// MapCarrierStatus resolves a RapidShyp status code or long-form name to an
// internal order status. The short-code table takes precedence. The second
// return value is false when the code is unknown; callers count those in the
// unmapped bucket and leave the order status untouched.
func MapCarrierStatus(carrierStatus string) (order.Status, bool) {
	code := strings.ToUpper(strings.TrimSpace(carrierStatus))
	if code == "" {
		return "", false
	}
	if status, ok := statusCodeMap[code]; ok {
		return status, true
	}
	if status, ok := statusNameMap[code]; ok {
		return status, true
	}
	return "", false
}
