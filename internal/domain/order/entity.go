// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"
)

// EmailStatus tracks the async confirmation email lifecycle
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// PaymentMethod represents how the order was paid
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

// Item is a purchased line item, stored on the order as a JSON array
type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// StatusEntry is one append-only status history record
type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment"`
}

// TrackScan is one raw carrier scan as received from the webhook.
// Timestamps are kept verbatim since carriers report them in varying formats.
type TrackScan struct {
	Status     string `json:"status"`
	StatusCode string `json:"status_code"`
	Location   string `json:"location"`
	Remarks    string `json:"remarks,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// Order represents a customer order with its embedded tax breakdown,
// shipment identifiers and append-only history logs. Items, status history
// and tracking scans are serialized into text columns as JSON arrays.
type Order struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"uniqueIndex;not null;size:50" json:"order_id"`

	// Customer snapshot
	CustomerID   *uint  `gorm:"index" json:"customer_id,omitempty"`
	CustomerName string `gorm:"not null;size:255" json:"customer_name"`
	Email        string `gorm:"not null;size:255" json:"email"`
	Phone        string `gorm:"not null;size:20" json:"phone"`
	Address      string `gorm:"not null;type:text" json:"address"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	Pincode      string `gorm:"size:10" json:"pincode"`

	// Financials
	TotalAmount  float64 `gorm:"not null" json:"total_amount"`
	TaxableValue float64 `gorm:"default:0" json:"taxable_value"`
	CGSTAmount   float64 `gorm:"default:0" json:"cgst_amount"`
	SGSTAmount   float64 `gorm:"default:0" json:"sgst_amount"`
	IGSTAmount   float64 `gorm:"default:0" json:"igst_amount"`
	HSNCode      string  `gorm:"size:10;default:'7117'" json:"hsn_code"`

	Status        Status        `gorm:"not null;default:'pending';size:30;index" json:"status"`
	EmailStatus   EmailStatus   `gorm:"not null;default:'pending';size:10" json:"email_status"`
	PaymentMethod PaymentMethod `gorm:"not null;default:'cod';size:10" json:"payment_method"`
	PaymentRef    string        `gorm:"size:100" json:"payment_ref,omitempty"`

	// Shipment identifiers assigned by the aggregator
	ShippingID  string `gorm:"size:100;index" json:"shipping_id,omitempty"`
	AWBNumber   string `gorm:"size:50;index" json:"awb_number,omitempty"`
	CourierName string `gorm:"size:100" json:"courier_name,omitempty"`
	LabelURL    string `gorm:"type:text" json:"label_url,omitempty"`
	ManifestURL string `gorm:"type:text" json:"manifest_url,omitempty"`

	// JSON-serialized logs
	Items         []Item        `gorm:"serializer:json;type:text" json:"items"`
	StatusHistory []StatusEntry `gorm:"serializer:json;type:text" json:"status_history"`
	TrackingData  []TrackScan   `gorm:"serializer:json;type:text" json:"tracking_data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReturnStatus represents the lifecycle of a return request
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
	ReturnStatusRefunded  ReturnStatus = "refunded"
	ReturnStatusCancelled ReturnStatus = "cancelled"
)

// Return represents a customer return/refund request for a delivered order
type Return struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	OrderID        string       `gorm:"not null;size:50;index" json:"order_id"`
	CustomerID     uint         `gorm:"not null;index" json:"customer_id"`
	Reason         string       `gorm:"not null;size:255" json:"reason"`
	Description    string       `gorm:"type:text" json:"description,omitempty"`
	Status         ReturnStatus `gorm:"not null;default:'pending';size:20" json:"status"`
	RefundAmount   float64      `gorm:"not null" json:"refund_amount"`
	RefundMethod   string       `gorm:"size:20;default:'original'" json:"refund_method"`
	ReturnItems    []Item       `gorm:"serializer:json;type:text" json:"return_items"`
	AdminNotes     string       `gorm:"type:text" json:"admin_notes,omitempty"`
	TrackingNumber string       `gorm:"size:50" json:"tracking_number,omitempty"`
	ShipmentID     string       `gorm:"size:100" json:"shipment_id,omitempty"`
	LabelURL       string       `gorm:"type:text" json:"label_url,omitempty"`
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TableName overrides
func (Order) TableName() string  { return "orders" }
func (Return) TableName() string { return "order_returns" }

// GenerateOrderID builds a human-readable order identifier.
// Format: VJ-YYYYMMDD-XXXXXX
func GenerateOrderID(suffix string) string {
	return fmt.Sprintf("VJ-%s-%s", time.Now().Format("20060102"), strings.ToUpper(suffix))
}

// HasShipment reports whether a shipment was already created for this order.
// Used as the idempotency guard for the ship operation.
func (o *Order) HasShipment() bool {
	return o.ShippingID != ""
}

// CanBeCancelled reports whether the order has not yet been handed to the
// carrier.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case StatusPending, StatusPaid, StatusOrdered, StatusPacked:
		return true
	}
	return false
}

// AppendStatus records a status change in the append-only history
func (o *Order) AppendStatus(status Status, comment string) {
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Comment:   comment,
	})
	o.Status = status
}

// AppendScans appends raw carrier scans to the tracking log. The log is
// at-least-once: duplicate scans from webhook redeliveries are kept.
func (o *Order) AppendScans(scans []TrackScan) {
	o.TrackingData = append(o.TrackingData, scans...)
}

// TotalQuantity sums the item quantities, defaulting each line to 1
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return total
}
