// internal/domain/shipping/types.go
package shipping

// ServiceabilityRequest checks courier coverage between two pincodes
type ServiceabilityRequest struct {
	PickupPincode   string  `json:"Pickup_pincode"`
	DeliveryPincode string  `json:"Delivery_pincode"`
	COD             bool    `json:"cod"`
	TotalOrderValue float64 `json:"total_order_value"`
	Weight          float64 `json:"weight"`
}

// ServiceableCourier is one courier option returned by the aggregator
type ServiceableCourier struct {
	CourierName string  `json:"courier_name"`
	EDD         string  `json:"edd"`
	COD         *bool   `json:"cod,omitempty"`
	Rate        float64 `json:"rate,omitempty"`
}

// ServiceabilityResponse is the aggregator's serviceability answer. Older
// account configurations nest the courier list under data.
type ServiceabilityResponse struct {
	Status                  string               `json:"status"`
	ServiceableCourierList  []ServiceableCourier `json:"serviceable_courier_list"`
	Data                    *ServiceabilityData  `json:"data,omitempty"`
	Remarks                 string               `json:"remarks,omitempty"`
}

// ServiceabilityData is the nested payload variant
type ServiceabilityData struct {
	ServiceableCourierList []ServiceableCourier `json:"serviceable_courier_list"`
	EDD                    string               `json:"edd,omitempty"`
}

// Couriers returns the courier list regardless of which payload variant the
// aggregator used.
func (r *ServiceabilityResponse) Couriers() []ServiceableCourier {
	if len(r.ServiceableCourierList) > 0 {
		return r.ServiceableCourierList
	}
	if r.Data != nil {
		return r.Data.ServiceableCourierList
	}
	return nil
}

// ShippingAddress is the consignee address in wrapper requests
type ShippingAddress struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	PinCode      string `json:"pinCode"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// OrderItem is one line item in a wrapper request
type OrderItem struct {
	ItemName      string  `json:"itemName"`
	SKU           string  `json:"sku"`
	Units         int     `json:"units"`
	UnitPrice     float64 `json:"unitPrice"`
	Tax           float64 `json:"tax"`
	ProductWeight float64 `json:"productWeight,omitempty"`
}

// PackageDetails carries parcel dimensions in cm and weight in grams
type PackageDetails struct {
	PackageLength  float64 `json:"packageLength"`
	PackageBreadth float64 `json:"packageBreadth"`
	PackageHeight  float64 `json:"packageHeight"`
	PackageWeight  float64 `json:"packageWeight"`
}

// ForwardOrderRequest is the wrapper API payload that creates the order,
// shipment and label in one call.
type ForwardOrderRequest struct {
	OrderID           string          `json:"orderId"`
	OrderDate         string          `json:"orderDate"` // YYYY-MM-DD
	StoreName         string          `json:"storeName"`
	BillingIsShipping bool            `json:"billingIsShipping"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	BillingAddress    ShippingAddress `json:"billingAddress"`
	OrderItems        []OrderItem     `json:"orderItems"`
	PaymentMethod     string          `json:"paymentMethod"` // COD or PREPAID
	PackageDetails    PackageDetails  `json:"packageDetails"`
	PickupAddressName string          `json:"pickupAddressName,omitempty"`
}

// ReturnPickupLocation is the customer address a return is picked up from
type ReturnPickupLocation struct {
	CustomerName string `json:"pickup_customer_name"`
	Phone        string `json:"pickup_phone"`
	Email        string `json:"pickup_email"`
	Address      string `json:"pickup_address"`
	Address2     string `json:"pickup_address_2"`
	Pincode      string `json:"pickup_pincode"`
}

// ReturnOrderRequest is the return wrapper API payload
type ReturnOrderRequest struct {
	OrderID             string               `json:"orderId"`
	OrderDate           string               `json:"orderDate"`
	StoreName           string               `json:"storeName"`
	ReturnReasonCode    string               `json:"return_reason_code"`
	DeliveryAddressName string               `json:"deliveryAddress_name"`
	PickupLocation      ReturnPickupLocation `json:"pickupLocation"`
	OrderItems          []OrderItem          `json:"orderItems"`
	PackageDetails      PackageDetails       `json:"packageDetails"`
}

// ShipmentDetails describes the shipment created by a wrapper call
type ShipmentDetails struct {
	ShipmentID  string `json:"shipmentId"`
	AWB         string `json:"awb"`
	CourierName string `json:"courierName"`
	LabelURL    string `json:"labelURL"`
	ManifestURL string `json:"manifestURL"`
}

// WrapperResponse is the wrapper API result envelope
type WrapperResponse struct {
	Status       string            `json:"status"` // SUCCESS or FAILED
	OrderCreated bool              `json:"orderCreated"`
	Remarks      string            `json:"remarks"`
	Shipment     []ShipmentDetails `json:"shipment"`
}

// Succeeded reports whether the wrapper call created the order
func (r *WrapperResponse) Succeeded() bool {
	return r.Status == "SUCCESS" || r.OrderCreated
}

// TrackOrderRequest looks up tracking by AWB or seller order id
type TrackOrderRequest struct {
	AWB           string `json:"awb,omitempty"`
	SellerOrderID string `json:"seller_order_id,omitempty"`
}

// TrackScanEvent is one scan in a tracking response
type TrackScanEvent struct {
	Status        string `json:"status"`
	StatusCode    string `json:"status_code"`
	Location      string `json:"location"`
	Remarks       string `json:"remarks"`
	Timestamp     string `json:"timestamp"`
	CourierStatus string `json:"courier_status,omitempty"`
}

// TrackShipmentDetails carries scan history for one shipment
type TrackShipmentDetails struct {
	AWB           string           `json:"awb"`
	CourierName   string           `json:"courier_name"`
	CurrentStatus string           `json:"current_status"`
	StatusCode    string           `json:"status_code"`
	EDD           string           `json:"edd,omitempty"`
	TrackScans    []TrackScanEvent `json:"track_scans"`
}

// TrackRecord groups shipments for one seller order
type TrackRecord struct {
	SellerOrderID   string                 `json:"seller_order_id"`
	ShipmentDetails []TrackShipmentDetails `json:"shipment_details"`
}

// TrackOrderResponse is the tracking API result
type TrackOrderResponse struct {
	Status  string        `json:"status"`
	Records []TrackRecord `json:"records"`
	Remarks string        `json:"remarks,omitempty"`
}

// PickupLocation is a registered warehouse in the aggregator account
type PickupLocation struct {
	Nickname string `json:"pickup_location_nickname"`
	PinCode  string `json:"pin_code"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// PickupLocationsResponse lists registered warehouses
type PickupLocationsResponse struct {
	Status string           `json:"status"`
	Data   []PickupLocation `json:"data"`
}

// CreatePickupLocationRequest registers a new warehouse
type CreatePickupLocationRequest struct {
	Nickname     string `json:"pickup_location_nickname"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	PinCode      string `json:"pin_code"`
	City         string `json:"city"`
	State        string `json:"state"`
}
