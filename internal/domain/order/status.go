// internal/domain/order/status.go
package order

// Status represents the order lifecycle status
type Status string

const (
	StatusPending        Status = "pending"
	StatusPaid           Status = "paid"
	StatusOrdered        Status = "ordered"
	StatusPacked         Status = "packed"
	StatusShipped        Status = "shipped"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusRTO            Status = "rto"
	StatusRTODelivered   Status = "rto_delivered"
	StatusCancelled      Status = "cancelled"
	StatusUndelivered    Status = "undelivered"
)

// statusTransitions enumerates the allowed successor statuses for each
// status. Carrier scans can skip intermediate states, so forward jumps are
// permitted; terminal statuses have no successors.
var statusTransitions = map[Status][]Status{
	StatusPending:        {StatusPaid, StatusOrdered, StatusPacked, StatusShipped, StatusCancelled},
	StatusPaid:           {StatusOrdered, StatusPacked, StatusShipped, StatusCancelled},
	StatusOrdered:        {StatusPacked, StatusShipped, StatusInTransit, StatusCancelled},
	StatusPacked:         {StatusShipped, StatusInTransit, StatusOutForDelivery, StatusCancelled},
	StatusShipped:        {StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusUndelivered, StatusRTO},
	StatusInTransit:      {StatusOutForDelivery, StatusDelivered, StatusUndelivered, StatusRTO},
	StatusOutForDelivery: {StatusDelivered, StatusUndelivered, StatusRTO},
	StatusUndelivered:    {StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusRTO},
	StatusRTO:            {StatusRTODelivered},
	StatusDelivered:      {},
	StatusRTODelivered:   {},
	StatusCancelled:      {},
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s Status) bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether s admits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusRTODelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer
func (s Status) String() string {
	return string(s)
}
