// internal/domain/notification/service.go
package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tracking"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/email"
)

const dispatchTimeout = 30 * time.Second

// EmailStatusUpdater records the outcome of the confirmation email on the
// order row. Implemented by order.Service; wired after construction since
// the order service itself takes a Notifier.
type EmailStatusUpdater interface {
	UpdateEmailStatus(orderID string, status order.EmailStatus) error
}

// Service delivers customer emails and Telegram alerts for order events.
// All notifications run in background goroutines so the order flow never
// blocks on an external provider.
type Service struct {
	config       *config.Config
	emailService *email.EmailService
	telegram     *TelegramClient
	updater      EmailStatusUpdater
	logger       *logrus.Logger
	wg           sync.WaitGroup
}

// NewService creates the notification service
func NewService(cfg *config.Config, emailService *email.EmailService, telegram *TelegramClient, logger *logrus.Logger) *Service {
	return &Service{
		config:       cfg,
		emailService: emailService,
		telegram:     telegram,
		logger:       logger,
	}
}

// SetStatusUpdater wires the order service in after both services exist
func (s *Service) SetStatusUpdater(u EmailStatusUpdater) {
	s.updater = u
}

// Wait blocks until all in-flight notifications have finished. Used during
// graceful shutdown and in tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(name string, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithFields(logrus.Fields{
					"notification": name,
					"panic":        fmt.Sprintf("%v", r),
				}).Error("Notification goroutine panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// OrderCreated sends the confirmation email and a Telegram alert for a new
// order, then records the email outcome on the order row.
func (s *Service) OrderCreated(o *order.Order) {
	s.dispatch("order_created", func(ctx context.Context) {
		data := email.OrderConfirmationData{
			OrderNumber:   o.OrderID,
			OrderDate:     o.CreatedAt.Format("02 Jan 2006"),
			Items:         toOrderLines(o.Items),
			TaxableValue:  o.TaxableValue,
			CGSTAmount:    o.CGSTAmount,
			SGSTAmount:    o.SGSTAmount,
			IGSTAmount:    o.IGSTAmount,
			OrderTotal:    o.TotalAmount,
			PaymentMethod: strings.ToUpper(string(o.PaymentMethod)),
			TrackingURL:   s.trackingURL(o.OrderID),
		}
		data.UserName = o.CustomerName
		data.UserEmail = o.Email

		status := order.EmailStatusSent
		if err := s.emailService.SendOrderConfirmationEmail(ctx, data); err != nil {
			status = order.EmailStatusFailed
			s.logger.WithFields(logrus.Fields{
				"order_id": o.OrderID,
				"error":    err.Error(),
			}).Error("Failed to send order confirmation email")
		}
		s.markEmail(o.OrderID, status)

		s.sendTelegram(ctx, s.formatNewOrderAlert(o))
	})
}

// OrderStatusChanged sends a shipping update email for customer-visible
// transitions
func (s *Service) OrderStatusChanged(o *order.Order, status order.Status) {
	s.dispatch("status_changed", func(ctx context.Context) {
		data := email.ShippingUpdateData{
			OrderNumber:   o.OrderID,
			Status:        string(status),
			StatusMessage: statusMessage(status),
			CourierName:   o.CourierName,
			AWBNumber:     o.AWBNumber,
			TrackingURL:   s.trackingURL(o.OrderID),
		}
		data.UserName = o.CustomerName
		data.UserEmail = o.Email

		if err := s.emailService.SendShippingUpdateEmail(ctx, data); err != nil {
			s.logger.WithFields(logrus.Fields{
				"order_id": o.OrderID,
				"status":   status,
				"error":    err.Error(),
			}).Error("Failed to send shipping update email")
		}

		if status == order.StatusRTO {
			s.sendTelegram(ctx, fmt.Sprintf(
				"⚠️ <b>RTO Alert</b>\nOrder <b>%s</b> is returning to origin.\nCustomer: %s (%s)",
				o.OrderID, o.CustomerName, o.Phone))
		}
	})
}

// ReturnRequested alerts the store team about a new return request
func (s *Service) ReturnRequested(o *order.Order, r *order.Return, images []string) {
	s.dispatch("return_requested", func(ctx context.Context) {
		msg := s.formatReturnAlert(o, r, images)
		s.sendTelegram(ctx, msg)

		subject := fmt.Sprintf("Return Request - %s", o.OrderID)
		body := fmt.Sprintf("Return requested for order %s by %s. Reason: %s. Refund amount: ₹%.2f",
			o.OrderID, o.CustomerName, reasonLabel(r.Reason), r.RefundAmount)
		if err := s.emailService.SendAdminAlertEmail(ctx, subject, body); err != nil {
			s.logger.WithFields(logrus.Fields{
				"order_id": o.OrderID,
				"error":    err.Error(),
			}).Warn("Failed to send return alert email")
		}
	})
}

func (s *Service) markEmail(orderID string, status order.EmailStatus) {
	if s.updater == nil {
		return
	}
	if err := s.updater.UpdateEmailStatus(orderID, status); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		}).Warn("Failed to record email status")
	}
}

func (s *Service) sendTelegram(ctx context.Context, text string) {
	if s.telegram == nil || !s.telegram.Enabled() {
		return
	}
	if err := s.telegram.SendMessage(ctx, text); err != nil {
		s.logger.WithError(err).Warn("Failed to send Telegram alert")
	}
}

func (s *Service) trackingURL(orderID string) string {
	token := tracking.GenerateToken(orderID, s.config.Tracking.TokenSecret)
	return fmt.Sprintf("%s/track/%s/%s", s.config.External.Email.BaseURL, orderID, token)
}

func (s *Service) formatNewOrderAlert(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛍 <b>New Order %s</b>\n", o.OrderID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", o.CustomerName, o.Phone)
	fmt.Fprintf(&b, "Amount: ₹%.2f (%s)\n", o.TotalAmount, strings.ToUpper(string(o.PaymentMethod)))
	fmt.Fprintf(&b, "Ship to: %s, %s %s\n", o.City, o.State, o.Pincode)
	for _, item := range o.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		fmt.Fprintf(&b, "• %s × %d\n", item.Name, qty)
	}
	return b.String()
}

func (s *Service) formatReturnAlert(o *order.Order, r *order.Return, images []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "↩️ <b>Return Request %s</b>\n", o.OrderID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", o.CustomerName, o.Phone)
	fmt.Fprintf(&b, "Reason: %s\n", reasonLabel(r.Reason))
	if r.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", r.Description)
	}
	fmt.Fprintf(&b, "Refund: ₹%.2f\n", r.RefundAmount)
	for _, item := range r.ReturnItems {
		fmt.Fprintf(&b, "• %s\n", item.Name)
	}
	for i, img := range images {
		fmt.Fprintf(&b, "Photo %d: %s\n", i+1, img)
	}
	return b.String()
}

func toOrderLines(items []order.Item) []email.OrderLine {
	lines := make([]email.OrderLine, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, email.OrderLine{
			Name:     item.Name,
			Quantity: qty,
			Price:    item.Price,
		})
	}
	return lines
}

var statusMessages = map[order.Status]string{
	order.StatusShipped:        "Your order has been handed to the courier and is on its way.",
	order.StatusOutForDelivery: "Your order is out for delivery and will reach you today.",
	order.StatusDelivered:      "Your order has been delivered. We hope you love it!",
}

func statusMessage(status order.Status) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "There is an update on your order."
}

var returnReasonLabels = map[string]string{
	"damaged":          "Damaged Product",
	"defective":        "Defective Product",
	"wrong_item":       "Wrong Item Received",
	"not_as_described": "Not As Described",
	"size_issue":       "Size / Fit Issue",
	"quality_issue":    "Quality Issue",
	"changed_mind":     "Changed My Mind",
	"other":            "Other",
}

func reasonLabel(reason string) string {
	if label, ok := returnReasonLabels[reason]; ok {
		return label
	}
	return reason
}
