// internal/domain/tracking/webhook.go
package tracking

import (
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

// WebhookScan is one scan entry in a RapidShyp webhook payload
type WebhookScan struct {
	Scan                string `json:"scan"`
	ScanLocation        string `json:"scan_location"`
	ScanDatetime        string `json:"scan_datetime"`
	RapidShypStatusCode string `json:"rapidshyp_status_code"`
	Remarks             string `json:"remarks,omitempty"`
}

// WebhookShipment is one shipment inside a webhook record
type WebhookShipment struct {
	AWB                       string        `json:"awb"`
	ShipmentStatus            string        `json:"shipment_status"`
	CurrentTrackingStatusCode string        `json:"current_tracking_status_code"`
	CourierName               string        `json:"courier_name"`
	TrackScans                []WebhookScan `json:"track_scans"`
}

// WebhookRecord groups shipments for one seller order
type WebhookRecord struct {
	SellerOrderID   string            `json:"seller_order_id"`
	ShipmentDetails []WebhookShipment `json:"shipment_details"`
}

// WebhookPayload is the raw webhook body. RapidShyp normally sends the
// nested records shape; older integrations deliver a flat payload with the
// fields at top level, which Normalize folds into the same event stream.
type WebhookPayload struct {
	Records []WebhookRecord `json:"records"`

	// Legacy flat shape
	AWB           string        `json:"awb"`
	AWBNumber     string        `json:"awb_number"`
	OrderID       string        `json:"order_id"`
	SellerOrderID string        `json:"seller_order_id"`
	Status        string        `json:"status"`
	CurrentStatus string        `json:"current_status"`
	Scans         []WebhookScan `json:"scans"`
}

// Event is one normalized shipment update extracted from a webhook payload
type Event struct {
	SellerOrderID string
	AWB           string
	CarrierStatus string
	CourierName   string
	Scans         []order.TrackScan
}

// Identified reports whether the event carries enough to locate an order
func (e Event) Identified() bool {
	return e.AWB != "" || e.SellerOrderID != ""
}

// Normalize flattens the payload into per-shipment events regardless of
// which wire shape the carrier used.
func (p *WebhookPayload) Normalize() []Event {
	records := p.Records
	if len(records) == 0 {
		awb := p.AWB
		if awb == "" {
			awb = p.AWBNumber
		}
		orderID := p.OrderID
		if orderID == "" {
			orderID = p.SellerOrderID
		}
		status := p.Status
		if status == "" {
			status = p.CurrentStatus
		}
		if awb == "" && orderID == "" {
			return nil
		}
		records = []WebhookRecord{{
			SellerOrderID: orderID,
			ShipmentDetails: []WebhookShipment{{
				AWB:            awb,
				ShipmentStatus: status,
				TrackScans:     p.Scans,
			}},
		}}
	}

	var events []Event
	for _, record := range records {
		for _, shipment := range record.ShipmentDetails {
			carrierStatus := shipment.ShipmentStatus
			if carrierStatus == "" {
				carrierStatus = shipment.CurrentTrackingStatusCode
			}
			events = append(events, Event{
				SellerOrderID: record.SellerOrderID,
				AWB:           shipment.AWB,
				CarrierStatus: carrierStatus,
				CourierName:   shipment.CourierName,
				Scans:         convertScans(shipment.TrackScans),
			})
		}
	}
	return events
}

func convertScans(scans []WebhookScan) []order.TrackScan {
	converted := make([]order.TrackScan, 0, len(scans))
	for _, scan := range scans {
		converted = append(converted, order.TrackScan{
			Status:     scan.Scan,
			StatusCode: scan.RapidShypStatusCode,
			Location:   scan.ScanLocation,
			Remarks:    scan.Remarks,
			Timestamp:  scan.ScanDatetime,
		})
	}
	return converted
}
