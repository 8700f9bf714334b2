// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tax"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound is returned when no order matches the identifier
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyShipped is returned when a shipment already exists for the order
	ErrAlreadyShipped = errors.New("order already shipped")
	// ErrNotCancellable is returned when the order has left the warehouse
	ErrNotCancellable = errors.New("order can no longer be cancelled")
	// ErrInvalidTransition is returned for a disallowed status change
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Notifier receives order lifecycle events. Implementations send
// notifications asynchronously and never block the caller.
type Notifier interface {
	OrderCreated(o *Order)
	OrderStatusChanged(o *Order, status Status)
	ReturnRequested(o *Order, r *Return, images []string)
}

// Service handles order business logic
type Service struct {
	db             *gorm.DB
	config         *config.Config
	taxCalculator  *tax.Calculator
	shippingClient shipping.Client
	notifier       Notifier
	logger         *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, calculator *tax.Calculator, shippingClient shipping.Client, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		taxCalculator:  calculator,
		shippingClient: shippingClient,
		notifier:       notifier,
		logger:         logger,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	CustomerName  string  `json:"customer_name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Phone         string  `json:"phone" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Pincode       string  `json:"pincode" binding:"required"`
	Items         []Item  `json:"items" binding:"required,min=1"`
	TotalAmount   float64 `json:"total_amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method"`
	PaymentRef    string  `json:"payment_ref"`
	CustomerID    *uint   `json:"customer_id"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ListResponse represents an order page with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Create creates a new order. The GST breakdown is computed from the
// tax-inclusive total and the destination state, and the initial status
// history entry is written with the row. The confirmation notification is
// dispatched after the insert and never blocks.
func (s *Service) Create(req *CreateOrderRequest) (*Order, error) {
	method := PaymentMethodCOD
	if req.PaymentMethod != "" {
		method = PaymentMethod(strings.ToLower(req.PaymentMethod))
	}
	if method != PaymentMethodCOD && method != PaymentMethodOnline {
		return nil, fmt.Errorf("unsupported payment method: %s", req.PaymentMethod)
	}

	breakdown := s.taxCalculator.Compute(req.TotalAmount, req.State)

	o := &Order{
		OrderID:       GenerateOrderID(uuid.New().String()[:6]),
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		TotalAmount:   req.TotalAmount,
		TaxableValue:  breakdown.TaxableValue,
		CGSTAmount:    breakdown.CGST,
		SGSTAmount:    breakdown.SGST,
		IGSTAmount:    breakdown.IGST,
		HSNCode:       s.config.Tax.DefaultHSNCode,
		Status:        StatusPending,
		EmailStatus:   EmailStatusPending,
		PaymentMethod: method,
		PaymentRef:    req.PaymentRef,
		Items:         req.Items,
	}
	o.StatusHistory = []StatusEntry{{
		Status:    StatusPending,
		Timestamp: time.Now().UTC(),
		Comment:   "Order placed",
	}}

	// Online payments arrive already captured by the gateway
	if method == PaymentMethodOnline && req.PaymentRef != "" {
		o.AppendStatus(StatusPaid, fmt.Sprintf("Payment captured: %s", req.PaymentRef))
	}

	if err := s.db.Create(o).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.OrderID,
		"amount":   o.TotalAmount,
		"state":    o.State,
	}).Info("Order created")

	if s.notifier != nil {
		s.notifier.OrderCreated(o)
	}
	return o, nil
}

// GetByOrderID fetches an order by its public identifier
func (s *Service) GetByOrderID(orderID string) (*Order, error) {
	var o Order
	err := s.db.Where("order_id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// GetByAWB fetches an order by its carrier AWB number
func (s *Service) GetByAWB(awb string) (*Order, error) {
	var o Order
	err := s.db.Where("awb_number = ?", awb).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// List returns a filtered, paginated order page, newest first
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{})

	if req.Status != "" && req.Status != "all" {
		query = query.Where("status = ?", req.Status)
	}
	if req.StartDate != "" {
		if start, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			query = query.Where("created_at >= ?", start)
		}
	}
	if req.EndDate != "" {
		if end, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			query = query.Where("created_at <= ?", end.Add(24*time.Hour-time.Second))
		}
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("order_id LIKE ? OR email LIKE ? OR customer_name LIKE ? OR awb_number LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// ListByCustomer returns a customer's orders, newest first
func (s *Service) ListByCustomer(customerID uint) ([]Order, error) {
	var orders []Order
	if err := s.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	return orders, nil
}

// Cancel cancels an order that has not yet been handed to the carrier
func (s *Service) Cancel(orderID, reason string) (*Order, error) {
	o, err := s.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	comment := "Order cancelled"
	if reason != "" {
		comment = fmt.Sprintf("Order cancelled: %s", reason)
	}
	o.AppendStatus(StatusCancelled, comment)

	if err := s.db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.WithField("order_id", o.OrderID).Info("Order cancelled")
	return o, nil
}

// UpdateEmailStatus records the outcome of the async confirmation email
func (s *Service) UpdateEmailStatus(orderID string, status EmailStatus) error {
	result := s.db.Model(&Order{}).Where("order_id = ?", orderID).Update("email_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update email status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// TransitionStatus applies a validated manual status change with a history
// entry. Used by the admin status update endpoint.
func (s *Service) TransitionStatus(orderID string, next Status, comment string) (*Order, error) {
	if !IsValidStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	o, err := s.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return o, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.AppendStatus(next, comment)
	if err := s.db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(o, next)
	}
	return o, nil
}

// shouldNotify reports whether a tracking-driven status warrants a customer
// notification.
func shouldNotify(status Status) bool {
	switch status {
	case StatusShipped, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}
