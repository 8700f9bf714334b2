// internal/domain/tax/calculator.go
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/varahajewels/ecommerce-backend/internal/config"
)

// Breakdown represents the GST split for a single order.
// For intra-state sales CGST and SGST are populated and IGST is zero;
// for inter-state sales IGST carries the full tax and CGST/SGST are zero.
type Breakdown struct {
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst_amount"`
	SGST         float64 `json:"sgst_amount"`
	IGST         float64 `json:"igst_amount"`
}

// TotalTax returns the sum of all tax components
func (b Breakdown) TotalTax() float64 {
	return b.CGST + b.SGST + b.IGST
}

// IsInterState reports whether the breakdown carries IGST
func (b Breakdown) IsInterState() bool {
	return b.IGST > 0
}

// Calculator computes GST breakdowns for tax-inclusive gross amounts
type Calculator struct {
	homeState string
	rate      decimal.Decimal
}

// NewCalculator creates a calculator from the tax configuration
func NewCalculator(cfg *config.Config) *Calculator {
	return &Calculator{
		homeState: cfg.Tax.HomeState,
		rate:      decimal.NewFromFloat(cfg.Tax.GSTRate),
	}
}

// Compute derives the GST breakdown for a tax-inclusive gross amount shipped
// to destinationState. The gross amount is back-calculated to its taxable
// value (gross / (1 + rate), rounded to two decimals) and the remainder is
// the tax. Intra-state tax is split evenly into CGST and SGST with each half
// rounded independently, so CGST+SGST may differ from the total tax by one
// paisa. There is no error path: an empty or unrecognised state falls through
// to the inter-state (IGST) branch.
func (c *Calculator) Compute(grossAmount float64, destinationState string) Breakdown {
	gross := decimal.NewFromFloat(grossAmount)
	divisor := decimal.NewFromInt(1).Add(c.rate)

	taxable := gross.Div(divisor).Round(2)
	totalTax := gross.Sub(taxable).Round(2)

	breakdown := Breakdown{TaxableValue: taxable.InexactFloat64()}

	if c.IsHomeState(destinationState) {
		half := totalTax.Div(decimal.NewFromInt(2)).Round(2)
		breakdown.CGST = half.InexactFloat64()
		breakdown.SGST = half.InexactFloat64()
	} else {
		breakdown.IGST = totalTax.InexactFloat64()
	}

	return breakdown
}

// IsHomeState reports whether the destination state matches the seller's home
// state, using a case-insensitive substring match in either direction so that
// inputs like "rajasthan" or "Rajasthan, India" still resolve intra-state.
func (c *Calculator) IsHomeState(destinationState string) bool {
	dest := strings.ToLower(strings.TrimSpace(destinationState))
	home := strings.ToLower(c.homeState)
	if dest == "" {
		return false
	}
	return strings.Contains(dest, home) || strings.Contains(home, dest)
}
