// internal/domain/tracking/service.go
package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
	"github.com/varahajewels/ecommerce-backend/internal/pkg/monitor"
)

// ErrInvalidToken is returned for a bad public tracking link
var ErrInvalidToken = errors.New("invalid tracking link")

// RecordOutcome is the per-shipment result of webhook processing
type RecordOutcome struct {
	OrderID       string       `json:"order_id,omitempty"`
	AWB           string       `json:"awb,omitempty"`
	Applied       bool         `json:"applied"`
	StatusChanged bool         `json:"status_changed"`
	Status        order.Status `json:"status,omitempty"`
	Reason        string       `json:"reason,omitempty"`
}

// WebhookResult summarizes a processed webhook delivery
type WebhookResult struct {
	Received int             `json:"received"`
	Outcomes []RecordOutcome `json:"outcomes"`
}

// Service coordinates carrier tracking: webhook ingestion, public tracking
// views and on-demand refresh against the aggregator API.
type Service struct {
	orderService   *order.Service
	shippingClient shipping.Client
	config         *config.Config
	collector      *monitor.Collector
	logger         *logrus.Logger
}

// NewService creates a new tracking service
func NewService(orderService *order.Service, shippingClient shipping.Client, cfg *config.Config, collector *monitor.Collector, logger *logrus.Logger) *Service {
	return &Service{
		orderService:   orderService,
		shippingClient: shippingClient,
		config:         cfg,
		collector:      collector,
		logger:         logger,
	}
}

// ProcessWebhook applies every shipment update in a webhook delivery and
// reports a per-record outcome. Processing never fails the whole delivery:
// unknown orders, unmapped statuses and transition regressions are recorded
// in the outcome and the carrier still gets an acknowledgement, otherwise
// the aggregator would retry the batch forever.
func (s *Service) ProcessWebhook(payload *WebhookPayload) *WebhookResult {
	events := payload.Normalize()
	result := &WebhookResult{Received: len(events)}

	for _, event := range events {
		outcome := s.applyEvent(event)
		result.Outcomes = append(result.Outcomes, outcome)
		if s.collector != nil {
			s.collector.RecordWebhookEvent(outcome.Applied)
		}
	}
	return result
}

func (s *Service) applyEvent(event Event) RecordOutcome {
	if !event.Identified() {
		return RecordOutcome{Reason: "no_identifiers"}
	}

	mapped, ok := MapCarrierStatus(event.CarrierStatus)
	if !ok && event.CarrierStatus != "" {
		if s.collector != nil {
			s.collector.RecordUnmappedStatus(event.CarrierStatus)
		}
	}

	update := &order.TrackingUpdate{
		SellerOrderID: event.SellerOrderID,
		AWB:           event.AWB,
		CourierName:   event.CourierName,
		CarrierStatus: event.CarrierStatus,
		Scans:         event.Scans,
	}
	if ok {
		update.MappedStatus = mapped
	}

	applied, err := s.orderService.ApplyTrackingUpdate(update)
	if errors.Is(err, order.ErrOrderNotFound) {
		s.logger.WithFields(logrus.Fields{
			"awb":      event.AWB,
			"order_id": event.SellerOrderID,
		}).Warn("Webhook update for unknown order")
		return RecordOutcome{AWB: event.AWB, OrderID: event.SellerOrderID, Reason: "order_not_found"}
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to apply tracking update")
		return RecordOutcome{AWB: event.AWB, OrderID: event.SellerOrderID, Reason: "internal_error"}
	}

	return RecordOutcome{
		OrderID:       applied.OrderID,
		AWB:           event.AWB,
		Applied:       true,
		StatusChanged: applied.StatusChanged,
		Status:        applied.Status,
		Reason:        applied.Reason,
	}
}

// View is the authenticated tracking representation of an order
type View struct {
	OrderID           string            `json:"order_id"`
	AWBNumber         string            `json:"awb_number,omitempty"`
	CourierName       string            `json:"courier_name"`
	CurrentStatus     order.Status      `json:"current_status"`
	CurrentStep       int               `json:"current_step"`
	TrackingHistory   []order.TrackScan `json:"tracking_history"`
	TrackingToken     string            `json:"tracking_token"`
	EstimatedDelivery string            `json:"estimated_delivery,omitempty"`
	OrderDate         string            `json:"order_date,omitempty"`
}

// PublicView is the reduced representation served on token links
type PublicView struct {
	OrderID         string            `json:"order_id"`
	AWBNumber       string            `json:"awb_number,omitempty"`
	CourierName     string            `json:"courier_name"`
	CurrentStatus   order.Status      `json:"current_status"`
	CurrentStep     int               `json:"current_step"`
	Steps           []Step            `json:"steps"`
	TrackingHistory []order.TrackScan `json:"tracking_history"`
	OrderDate       string            `json:"order_date,omitempty"`
	CustomerName    string            `json:"customer_name"`
}

// GetView returns the full tracking view, including the shareable token
func (s *Service) GetView(orderID string) (*View, error) {
	o, err := s.orderService.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	courier := o.CourierName
	if courier == "" {
		courier = "RapidShyp"
	}

	view := &View{
		OrderID:           o.OrderID,
		AWBNumber:         o.AWBNumber,
		CourierName:       courier,
		CurrentStatus:     o.Status,
		CurrentStep:       StepNumber(o.Status),
		TrackingHistory:   o.TrackingData,
		TrackingToken:     GenerateToken(o.OrderID, s.config.Tracking.TokenSecret),
		EstimatedDelivery: EstimatedDelivery(o),
	}
	if !o.CreatedAt.IsZero() {
		view.OrderDate = o.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return view, nil
}

// GetPublicView validates the token and returns the reduced tracking view
// served to unauthenticated email and SMS links. Only the customer's first
// name and the last ten scans are exposed.
func (s *Service) GetPublicView(orderID, token string) (*PublicView, error) {
	if !VerifyToken(orderID, s.config.Tracking.TokenSecret, token) {
		return nil, ErrInvalidToken
	}
	o, err := s.orderService.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	courier := o.CourierName
	if courier == "" {
		courier = "RapidShyp"
	}

	history := o.TrackingData
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	firstName, _ := splitFirstName(o.CustomerName)

	view := &PublicView{
		OrderID:         o.OrderID,
		AWBNumber:       o.AWBNumber,
		CourierName:     courier,
		CurrentStatus:   o.Status,
		CurrentStep:     StepNumber(o.Status),
		Steps:           Steps(o),
		TrackingHistory: history,
		CustomerName:    firstName,
	}
	if !o.CreatedAt.IsZero() {
		view.OrderDate = o.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return view, nil
}

// Refresh pulls the latest scans from the aggregator API and applies them
// through the normal tracking path. Fallback for delayed webhooks.
func (s *Service) Refresh(ctx context.Context, orderID string) (*order.TrackingOutcome, error) {
	o, err := s.orderService.GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if o.AWBNumber == "" {
		return nil, fmt.Errorf("order %s has no AWB assigned", orderID)
	}

	resp, err := s.shippingClient.TrackOrder(ctx, &shipping.TrackOrderRequest{AWB: o.AWBNumber})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking: %w", err)
	}

	update := &order.TrackingUpdate{SellerOrderID: o.OrderID, AWB: o.AWBNumber}
	for _, record := range resp.Records {
		for _, sh := range record.ShipmentDetails {
			carrierStatus := sh.StatusCode
			if carrierStatus == "" {
				carrierStatus = sh.CurrentStatus
			}
			update.CarrierStatus = carrierStatus
			if sh.CourierName != "" {
				update.CourierName = sh.CourierName
			}
			for _, scan := range sh.TrackScans {
				update.Scans = append(update.Scans, order.TrackScan{
					Status:     scan.Status,
					StatusCode: scan.StatusCode,
					Location:   scan.Location,
					Remarks:    scan.Remarks,
					Timestamp:  scan.Timestamp,
				})
			}
		}
	}

	if mapped, ok := MapCarrierStatus(update.CarrierStatus); ok {
		update.MappedStatus = mapped
	} else if update.CarrierStatus != "" && s.collector != nil {
		s.collector.RecordUnmappedStatus(update.CarrierStatus)
	}

	return s.orderService.ApplyTrackingUpdate(update)
}

func splitFirstName(full string) (string, string) {
	for i, r := range full {
		if r == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
