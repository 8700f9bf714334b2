// internal/domain/tax/calculator_test.go
package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/varahajewels/ecommerce-backend/internal/config"
)

func newTestCalculator() *Calculator {
	return NewCalculator(&config.Config{
		Tax: config.TaxConfig{
			HomeState: "Rajasthan",
			GSTRate:   0.03,
		},
	})
}

func TestCompute_IntraState(t *testing.T) {
	calc := newTestCalculator()

	b := calc.Compute(1030, "Rajasthan")

	assert.Equal(t, 1000.00, b.TaxableValue)
	assert.Equal(t, 15.00, b.CGST)
	assert.Equal(t, 15.00, b.SGST)
	assert.Equal(t, 0.00, b.IGST)
	assert.False(t, b.IsInterState())
}

func TestCompute_InterState(t *testing.T) {
	calc := newTestCalculator()

	b := calc.Compute(1030, "Maharashtra")

	assert.Equal(t, 1000.00, b.TaxableValue)
	assert.Equal(t, 0.00, b.CGST)
	assert.Equal(t, 0.00, b.SGST)
	assert.Equal(t, 30.00, b.IGST)
	assert.True(t, b.IsInterState())
}

func TestCompute_InterStateRounding(t *testing.T) {
	calc := newTestCalculator()

	b := calc.Compute(1000, "Delhi")

	assert.Equal(t, 970.87, b.TaxableValue)
	assert.Equal(t, 29.13, b.IGST)
}

func TestCompute_UnknownStateFallsToIGST(t *testing.T) {
	calc := newTestCalculator()

	b := calc.Compute(1030, "")
	assert.Equal(t, 30.00, b.IGST)
	assert.Equal(t, 0.00, b.CGST)

	b = calc.Compute(1030, "Narnia")
	assert.Equal(t, 30.00, b.IGST)
}

func TestCompute_SubstringStateMatch(t *testing.T) {
	calc := newTestCalculator()

	for _, state := range []string{"rajasthan", "Rajasthan, India", "  RAJASTHAN "} {
		b := calc.Compute(1030, state)
		assert.Equal(t, 15.00, b.CGST, "state %q should match intra-state", state)
		assert.Equal(t, 0.00, b.IGST)
	}
}

func TestCompute_HalfSplitRoundsIndependently(t *testing.T) {
	calc := newTestCalculator()

	// Gross of 1.03 yields 0.03 tax; each half rounds to 0.02, so the split
	// may drift from the total by one paisa. The components must stay equal.
	b := calc.Compute(1.03, "Rajasthan")

	assert.Equal(t, b.CGST, b.SGST)
	assert.InDelta(t, 0.03, b.CGST+b.SGST, 0.011)
}

func TestCompute_ZeroGross(t *testing.T) {
	calc := newTestCalculator()

	b := calc.Compute(0, "Rajasthan")

	assert.Equal(t, 0.00, b.TaxableValue)
	assert.Equal(t, 0.00, b.TotalTax())
}

func TestPlaceOfSupplyCode(t *testing.T) {
	assert.Equal(t, "08", PlaceOfSupplyCode("Rajasthan"))
	assert.Equal(t, "27", PlaceOfSupplyCode("Maharashtra"))
	assert.Equal(t, "07", PlaceOfSupplyCode("delhi"))
	assert.Equal(t, "24", PlaceOfSupplyCode("Gujarat, India"))
	assert.Equal(t, UnknownPOSCode, PlaceOfSupplyCode("Atlantis"))
	assert.Equal(t, UnknownPOSCode, PlaceOfSupplyCode(""))
}
