// internal/domain/order/ship.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
)

// ShipRequest carries parcel details for shipment creation
type ShipRequest struct {
	Weight         float64 `json:"weight"`  // kg
	Length         float64 `json:"length"`  // cm
	Breadth        float64 `json:"breadth"` // cm
	Height         float64 `json:"height"`  // cm
	PickupLocation string  `json:"pickup_location"`
}

// ShipResult is the outcome of a successful ship operation
type ShipResult struct {
	Order    *Order                    `json:"order"`
	Shipment *shipping.ShipmentDetails `json:"shipment"`
}

func (r *ShipRequest) applyDefaults() {
	if r.Weight <= 0 {
		r.Weight = 0.5
	}
	if r.Length <= 0 {
		r.Length = 10
	}
	if r.Breadth <= 0 {
		r.Breadth = 10
	}
	if r.Height <= 0 {
		r.Height = 5
	}
}

// Ship creates a carrier shipment for the order through the aggregator
// wrapper API. The shipping_id presence is the idempotency guard: calling
// ship twice returns ErrAlreadyShipped without touching the carrier. When the
// aggregator is disabled a mock shipment is recorded so the rest of the
// lifecycle stays exercisable in development.
func (s *Service) Ship(ctx context.Context, orderID string, req *ShipRequest) (*ShipResult, error) {
	o, err := s.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if o.HasShipment() {
		return nil, ErrAlreadyShipped
	}
	if o.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, o.Status)
	}
	req.applyDefaults()

	if !s.config.Shipping.RapidShypEnabled {
		return s.shipMock(o)
	}

	pickupName := s.resolvePickupLocation(ctx, req.PickupLocation)
	forwardReq := s.buildForwardOrder(o, req, pickupName)

	resp, err := s.shippingClient.CreateForwardOrder(ctx, forwardReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	// The aggregator rejects unknown pickup names; retry once with the
	// first registered location.
	if resp.Status == "FAILED" && strings.Contains(resp.Remarks, "Pickup address not found") {
		s.logger.WithField("order_id", o.OrderID).Warn("Pickup address not found, retrying with first registered location")
		locations, locErr := s.shippingClient.GetPickupLocations(ctx)
		if locErr == nil && len(locations.Data) > 0 {
			forwardReq.PickupAddressName = locations.Data[0].Nickname
			resp, err = s.shippingClient.CreateForwardOrder(ctx, forwardReq)
			if err != nil {
				return nil, fmt.Errorf("failed to create shipment on retry: %w", err)
			}
		}
	}

	if !resp.Succeeded() || len(resp.Shipment) == 0 {
		remarks := resp.Remarks
		if remarks == "" {
			remarks = "no shipment returned"
		}
		return nil, fmt.Errorf("shipment creation rejected: %s", remarks)
	}

	sh := resp.Shipment[0]
	o.ShippingID = sh.ShipmentID
	o.AWBNumber = sh.AWB
	o.CourierName = sh.CourierName
	o.LabelURL = sh.LabelURL
	o.ManifestURL = sh.ManifestURL
	o.AppendStatus(StatusShipped, fmt.Sprintf("Shipped via %s. AWB: %s", sh.CourierName, sh.AWB))

	if err := s.db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("failed to save shipment details: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.OrderID,
		"awb":      o.AWBNumber,
		"courier":  o.CourierName,
	}).Info("Shipment created")

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(o, StatusShipped)
	}
	return &ShipResult{Order: o, Shipment: &sh}, nil
}

func (s *Service) shipMock(o *Order) (*ShipResult, error) {
	now := time.Now().Unix()
	sh := shipping.ShipmentDetails{
		ShipmentID:  fmt.Sprintf("MOCK-SHIP-%d", now),
		AWB:         fmt.Sprintf("MOCK-AWB-%d", now),
		CourierName: "Mock Courier",
	}

	o.ShippingID = sh.ShipmentID
	o.AWBNumber = sh.AWB
	o.CourierName = sh.CourierName
	o.AppendStatus(StatusShipped, "Order shipped via Mock Courier")

	if err := s.db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("failed to save mock shipment: %w", err)
	}

	s.logger.WithField("order_id", o.OrderID).Info("Aggregator disabled, recorded mock shipment")

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(o, StatusShipped)
	}
	return &ShipResult{Order: o, Shipment: &sh}, nil
}

// resolvePickupLocation turns a pincode or empty input into a registered
// pickup location nickname. Resolution order: explicit name as-is, pincode
// match against registered locations, configured warehouse pincode match,
// then the first registered location.
func (s *Service) resolvePickupLocation(ctx context.Context, input string) string {
	input = strings.TrimSpace(input)
	if input != "" && !isNumeric(input) {
		return input
	}

	locations, err := s.shippingClient.GetPickupLocations(ctx)
	if err != nil || len(locations.Data) == 0 {
		if err != nil {
			s.logger.WithError(err).Warn("Failed to fetch pickup locations")
		}
		if fallback := s.config.Shipping.PickupLocation; fallback != "" {
			return fallback
		}
		return input
	}

	if isNumeric(input) {
		for _, loc := range locations.Data {
			if loc.PinCode == input {
				return loc.Nickname
			}
		}
	}
	if envPin := s.config.Shipping.PickupPincode; envPin != "" {
		for _, loc := range locations.Data {
			if loc.PinCode == envPin {
				return loc.Nickname
			}
		}
	}
	return locations.Data[0].Nickname
}

func (s *Service) buildForwardOrder(o *Order, req *ShipRequest, pickupName string) *shipping.ForwardOrderRequest {
	firstName, lastName := splitName(o.CustomerName)

	address1 := o.Address
	address2 := ""
	if len(address1) > 99 {
		if len(address1) > 199 {
			address2 = address1[99:199]
		} else {
			address2 = address1[99:]
		}
		address1 = address1[:99]
	}

	addr := shipping.ShippingAddress{
		FirstName:    firstName,
		LastName:     lastName,
		AddressLine1: address1,
		AddressLine2: address2,
		PinCode:      o.Pincode,
		Email:        o.Email,
		Phone:        o.Phone,
	}

	items := make([]shipping.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		sku := item.ProductID
		if sku == "" {
			sku = "SKU_DEFAULT"
		}
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("Item - %s", sku)
		}
		if len(name) > 199 {
			name = name[:199]
		}
		units := item.Quantity
		if units < 1 {
			units = 1
		}
		items = append(items, shipping.OrderItem{
			ItemName:      name,
			SKU:           sku,
			Units:         units,
			UnitPrice:     item.Price,
			Tax:           0,
			ProductWeight: 0.5,
		})
	}

	paymentMethod := "PREPAID"
	if o.PaymentMethod == PaymentMethodCOD {
		paymentMethod = "COD"
	}

	return &shipping.ForwardOrderRequest{
		OrderID:           o.OrderID,
		OrderDate:         o.CreatedAt.Format("2006-01-02"),
		StoreName:         "DEFAULT",
		BillingIsShipping: true,
		ShippingAddress:   addr,
		BillingAddress:    addr,
		OrderItems:        items,
		PaymentMethod:     paymentMethod,
		PackageDetails: shipping.PackageDetails{
			PackageLength:  req.Length,
			PackageBreadth: req.Breadth,
			PackageHeight:  req.Height,
			PackageWeight:  req.Weight * 1000, // wrapper expects grams
		},
		PickupAddressName: pickupName,
	}
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "Customer", "."
	}
	if len(parts) == 1 {
		return parts[0], "."
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
