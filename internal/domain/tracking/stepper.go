// internal/domain/tracking/stepper.go
package tracking

import (
	"fmt"
	"time"

	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

// Step is one entry in the public tracking stepper UI
type Step struct {
	Step        int    `json:"step"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Active      bool   `json:"active"`
	Date        string `json:"date,omitempty"`
}

// stepNumbers maps order statuses to their position in the 6-step journey.
// Exception statuses (rto, undelivered, cancelled) are not part of the happy
// path and fall back to step 1.
var stepNumbers = map[order.Status]int{
	order.StatusPending:        1,
	order.StatusPaid:           1,
	order.StatusOrdered:        1,
	order.StatusPacked:         2,
	order.StatusShipped:        3,
	order.StatusInTransit:      4,
	order.StatusOutForDelivery: 5,
	order.StatusDelivered:      6,
}

// StepNumber resolves an order status to its stepper position (1-6)
func StepNumber(status order.Status) int {
	if n, ok := stepNumbers[status]; ok {
		return n
	}
	return 1
}

// Steps builds the six-step journey for the public tracking page
func Steps(o *order.Order) []Step {
	current := StepNumber(o.Status)

	shippedDesc := "Your piece is on the way"
	if o.AWBNumber != "" {
		shippedDesc = fmt.Sprintf("AWB: %s", o.AWBNumber)
	}

	orderedDate := ""
	if !o.CreatedAt.IsZero() {
		orderedDate = o.CreatedAt.Format("02 Jan, 03:04 PM")
	}

	titles := []struct {
		title string
		desc  string
		date  string
	}{
		{"Ordered", "Order confirmed", orderedDate},
		{"Packed", "Our craftsmen have packed your piece", ""},
		{"Shipped", shippedDesc, ""},
		{"In Transit", "Package moving through courier network", ""},
		{"Out for Delivery", "Your package is out for delivery today", ""},
		{"Delivered", "Package delivered successfully", ""},
	}

	steps := make([]Step, 0, len(titles))
	for i, t := range titles {
		n := i + 1
		steps = append(steps, Step{
			Step:        n,
			Title:       t.title,
			Description: t.desc,
			Completed:   current >= n,
			Active:      current == n,
			Date:        t.date,
		})
	}
	return steps
}

// EstimatedDelivery returns the order date plus five days, the standard
// courier window shown on the tracking page.
func EstimatedDelivery(o *order.Order) string {
	if o.CreatedAt.IsZero() {
		return ""
	}
	return o.CreatedAt.Add(5 * 24 * time.Hour).Format("02 Jan 2006")
}
