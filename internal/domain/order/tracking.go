// internal/domain/order/tracking.go
package order

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// TrackingUpdate is one carrier shipment update, already normalized and
// mapped by the tracking layer.
type TrackingUpdate struct {
	SellerOrderID string
	AWB           string
	CourierName   string
	CarrierStatus string // raw carrier code, kept for history comments
	MappedStatus  Status // empty when the carrier code is unmapped
	Scans         []TrackScan
}

// TrackingOutcome reports what a tracking update did to an order
type TrackingOutcome struct {
	OrderID       string `json:"order_id"`
	StatusChanged bool   `json:"status_changed"`
	Status        Status `json:"status"`
	ScansAppended int    `json:"scans_appended"`
	Reason        string `json:"reason,omitempty"` // unmapped, invalid_transition
}

// ApplyTrackingUpdate applies a carrier update to the matching order. Scans
// are always appended, including redelivered duplicates, since the webhook is
// at-least-once. The status only moves when the mapped status is a valid
// transition from the current one; unmapped codes and transition regressions
// leave it untouched but still record the scans.
func (s *Service) ApplyTrackingUpdate(u *TrackingUpdate) (*TrackingOutcome, error) {
	o, err := s.findForTracking(u)
	if err != nil {
		return nil, err
	}

	o.AppendScans(u.Scans)
	if u.CourierName != "" {
		o.CourierName = u.CourierName
	}

	outcome := &TrackingOutcome{
		OrderID:       o.OrderID,
		Status:        o.Status,
		ScansAppended: len(u.Scans),
	}

	switch {
	case u.MappedStatus == "":
		outcome.Reason = "unmapped"
		s.logger.WithFields(logrus.Fields{
			"order_id":       o.OrderID,
			"carrier_status": u.CarrierStatus,
		}).Warn("Unmapped carrier status, keeping current order status")
	case u.MappedStatus == o.Status:
		// Same status rescan, nothing to transition
	case !o.Status.CanTransitionTo(u.MappedStatus):
		outcome.Reason = "invalid_transition"
		s.logger.WithFields(logrus.Fields{
			"order_id": o.OrderID,
			"from":     o.Status,
			"to":       u.MappedStatus,
		}).Warn("Carrier status would regress order, ignoring transition")
	default:
		o.AppendStatus(u.MappedStatus, fmt.Sprintf("RapidShyp: %s", u.CarrierStatus))
		outcome.StatusChanged = true
		outcome.Status = u.MappedStatus
	}

	if err := s.db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("failed to save tracking update: %w", err)
	}

	if outcome.StatusChanged && s.notifier != nil && shouldNotify(u.MappedStatus) {
		s.notifier.OrderStatusChanged(o, u.MappedStatus)
	}
	return outcome, nil
}

// findForTracking locates the order by AWB first, then the seller order id
func (s *Service) findForTracking(u *TrackingUpdate) (*Order, error) {
	if u.AWB != "" {
		if o, err := s.GetByAWB(u.AWB); err == nil {
			return o, nil
		}
	}
	if u.SellerOrderID != "" {
		return s.GetByOrderID(u.SellerOrderID)
	}
	return nil, ErrOrderNotFound
}
