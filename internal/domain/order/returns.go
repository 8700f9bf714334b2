// internal/domain/order/returns.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
	"gorm.io/gorm"
)

const returnWindowDays = 7

var (
	// ErrReturnNotFound is returned when no return matches the id
	ErrReturnNotFound = errors.New("return request not found")
	// ErrReturnExists is returned when the order already has a return request
	ErrReturnExists = errors.New("return request already exists for this order")
	// ErrReturnNotEligible is returned for undelivered or foreign orders
	ErrReturnNotEligible = errors.New("return can only be requested for delivered orders")
	// ErrReturnWindowExpired is returned past the post-delivery window
	ErrReturnWindowExpired = errors.New("return window has expired")
	// ErrReturnNotApproved is returned when refunding an unapproved return
	ErrReturnNotApproved = errors.New("return must be approved before refund")
)

// CreateReturnRequest is a customer's return request
type CreateReturnRequest struct {
	OrderID     string   `json:"order_id" binding:"required"`
	Reason      string   `json:"reason" binding:"required"`
	Description string   `json:"description"`
	ItemIndexes []int    `json:"items"` // indexes into the order's items, empty means full return
	Images      []string `json:"images"`
}

// UpdateReturnRequest is the admin update payload for a return
type UpdateReturnRequest struct {
	Status         ReturnStatus `json:"status"`
	AdminNotes     string       `json:"admin_notes"`
	TrackingNumber string       `json:"tracking_number"`
}

// CreateReturn opens a return request for a delivered order. Partial returns
// select items by index and refund only their line totals; otherwise the full
// order amount is refunded. One return per order.
func (s *Service) CreateReturn(customerID uint, req *CreateReturnRequest) (*Return, error) {
	o, err := s.GetByOrderID(req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID == nil || *o.CustomerID != customerID {
		return nil, ErrOrderNotFound
	}
	if o.Status != StatusDelivered {
		return nil, ErrReturnNotEligible
	}
	if time.Since(o.UpdatedAt) > returnWindowDays*24*time.Hour {
		return nil, ErrReturnWindowExpired
	}

	var existing Return
	err = s.db.Where("order_id = ?", req.OrderID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w (status: %s)", ErrReturnExists, existing.Status)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing returns: %w", err)
	}

	refundAmount := o.TotalAmount
	var returnItems []Item
	if len(req.ItemIndexes) > 0 {
		partial := 0.0
		for _, idx := range req.ItemIndexes {
			if idx < 0 || idx >= len(o.Items) {
				continue
			}
			item := o.Items[idx]
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			partial += item.Price * float64(qty)
			returnItems = append(returnItems, item)
		}
		if len(returnItems) > 0 {
			refundAmount = partial
		}
	}

	ret := &Return{
		OrderID:      req.OrderID,
		CustomerID:   customerID,
		Reason:       req.Reason,
		Description:  req.Description,
		Status:       ReturnStatusPending,
		RefundAmount: refundAmount,
		RefundMethod: "original",
		ReturnItems:  returnItems,
	}
	if err := s.db.Create(ret).Error; err != nil {
		return nil, fmt.Errorf("failed to create return request: %w", err)
	}

	s.logger.WithField("order_id", req.OrderID).Info("Return request created")

	if s.notifier != nil {
		s.notifier.ReturnRequested(o, ret, req.Images)
	}
	return ret, nil
}

// ListReturns lists return requests, optionally filtered by status
func (s *Service) ListReturns(status ReturnStatus) ([]Return, error) {
	query := s.db.Model(&Return{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var returns []Return
	if err := query.Order("created_at DESC").Find(&returns).Error; err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	return returns, nil
}

// ListCustomerReturns lists a customer's return requests, newest first
func (s *Service) ListCustomerReturns(customerID uint) ([]Return, error) {
	var returns []Return
	if err := s.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&returns).Error; err != nil {
		return nil, fmt.Errorf("failed to list customer returns: %w", err)
	}
	return returns, nil
}

// UpdateReturn applies an admin decision to a return request
func (s *Service) UpdateReturn(returnID uint, req *UpdateReturnRequest) (*Return, error) {
	ret, err := s.getReturn(returnID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		ret.Status = req.Status
		if req.Status == ReturnStatusApproved || req.Status == ReturnStatusRejected || req.Status == ReturnStatusRefunded {
			now := time.Now().UTC()
			ret.ProcessedAt = &now
		}
	}
	ret.AdminNotes = req.AdminNotes
	if req.TrackingNumber != "" {
		ret.TrackingNumber = req.TrackingNumber
	}

	if err := s.db.Save(ret).Error; err != nil {
		return nil, fmt.Errorf("failed to update return: %w", err)
	}
	return ret, nil
}

// ProcessRefund marks an approved return as refunded
func (s *Service) ProcessRefund(returnID uint) (*Return, error) {
	ret, err := s.getReturn(returnID)
	if err != nil {
		return nil, err
	}
	if ret.Status != ReturnStatusApproved {
		return nil, ErrReturnNotApproved
	}

	now := time.Now().UTC()
	ret.Status = ReturnStatusRefunded
	ret.ProcessedAt = &now

	if err := s.db.Save(ret).Error; err != nil {
		return nil, fmt.Errorf("failed to process refund: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"return_id": ret.ID,
		"order_id":  ret.OrderID,
		"amount":    ret.RefundAmount,
	}).Info("Refund processed")
	return ret, nil
}

// CreateReturnShipment books a reverse pickup for an approved return through
// the aggregator's return wrapper API.
func (s *Service) CreateReturnShipment(ctx context.Context, returnID uint) (*Return, error) {
	ret, err := s.getReturn(returnID)
	if err != nil {
		return nil, err
	}
	if ret.Status != ReturnStatusApproved {
		return nil, ErrReturnNotApproved
	}
	o, err := s.GetByOrderID(ret.OrderID)
	if err != nil {
		return nil, err
	}

	items := ret.ReturnItems
	if len(items) == 0 {
		items = o.Items
	}
	orderItems := make([]shipping.OrderItem, 0, len(items))
	for _, item := range items {
		sku := item.ProductID
		if sku == "" {
			sku = "SKU_DEF"
		}
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("Item - %s", sku)
		}
		units := item.Quantity
		if units < 1 {
			units = 1
		}
		orderItems = append(orderItems, shipping.OrderItem{
			ItemName:  name,
			SKU:       sku,
			Units:     units,
			UnitPrice: item.Price,
		})
	}

	req := &shipping.ReturnOrderRequest{
		OrderID:             fmt.Sprintf("RET-%s", ret.OrderID),
		OrderDate:           time.Now().Format("2006-01-02"),
		StoreName:           "DEFAULT",
		ReturnReasonCode:    "OTHER",
		DeliveryAddressName: s.config.Shipping.PickupLocation,
		PickupLocation: shipping.ReturnPickupLocation{
			CustomerName: o.CustomerName,
			Phone:        o.Phone,
			Email:        o.Email,
			Address:      truncate(o.Address, 99),
			Pincode:      o.Pincode,
		},
		OrderItems: orderItems,
		PackageDetails: shipping.PackageDetails{
			PackageLength:  10,
			PackageBreadth: 10,
			PackageHeight:  5,
			PackageWeight:  500,
		},
	}

	resp, err := s.shippingClient.CreateReturnOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create return shipment: %w", err)
	}
	if !resp.Succeeded() || len(resp.Shipment) == 0 {
		return nil, fmt.Errorf("return shipment rejected: %s", resp.Remarks)
	}

	sh := resp.Shipment[0]
	ret.ShipmentID = sh.ShipmentID
	ret.TrackingNumber = sh.AWB
	ret.LabelURL = sh.LabelURL

	if err := s.db.Save(ret).Error; err != nil {
		return nil, fmt.Errorf("failed to save return shipment: %w", err)
	}
	return ret, nil
}

func (s *Service) getReturn(returnID uint) (*Return, error) {
	var ret Return
	err := s.db.First(&ret, returnID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReturnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get return: %w", err)
	}
	return &ret, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
