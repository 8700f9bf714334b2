// internal/domain/report/service_test.go
package report

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/settings"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReport(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &settings.StoreSettings{}))

	cfg := &config.Config{
		Tax: config.TaxConfig{
			HomeState:      "Rajasthan",
			GSTRate:        0.03,
			DefaultHSNCode: "7117",
		},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewService(db, cfg, settings.NewService(db), logger), db
}

func seedOrder(t *testing.T, db *gorm.DB, o order.Order) {
	t.Helper()
	if o.OrderID == "" {
		o.OrderID = order.GenerateOrderID(strings.ToUpper(o.State + o.CreatedAt.Format("150405.000")))
	}
	require.NoError(t, db.Create(&o).Error)
}

func august(day int) time.Time {
	return time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC)
}

func TestSales_SummaryAndFilters(t *testing.T) {
	svc, db := setupReport(t)

	seedOrder(t, db, order.Order{
		OrderID: "VJ-1", CustomerName: "Priya", Email: "p@example.com",
		TotalAmount: 1030, TaxableValue: 1000, CGSTAmount: 15, SGSTAmount: 15,
		State: "Rajasthan", Status: order.StatusDelivered, PaymentMethod: order.PaymentMethodCOD,
		CreatedAt: august(10),
	})
	seedOrder(t, db, order.Order{
		OrderID: "VJ-2", CustomerName: "Arjun", Email: "a@example.com",
		TotalAmount: 2060, TaxableValue: 2000, IGSTAmount: 60,
		State: "Maharashtra", Status: order.StatusShipped, PaymentMethod: order.PaymentMethodOnline,
		CreatedAt: august(20),
	})

	full, err := svc.Sales(&SalesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, full.Stats.TotalOrders)
	assert.Equal(t, 3090.0, full.Stats.TotalSales)

	filtered, err := svc.Sales(&SalesRequest{StartDate: "2026-08-15", EndDate: "2026-08-31"})
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, "VJ-2", filtered.Data[0].OrderID)

	byStatus, err := svc.Sales(&SalesRequest{Status: "delivered"})
	require.NoError(t, err)
	require.Len(t, byStatus.Data, 1)
	assert.Equal(t, "VJ-1", byStatus.Data[0].OrderID)

	// Bad dates are ignored, not rejected
	lenient, err := svc.Sales(&SalesRequest{StartDate: "garbage"})
	require.NoError(t, err)
	assert.Len(t, lenient.Data, 2)
}

func TestSalesCSV(t *testing.T) {
	svc, db := setupReport(t)

	seedOrder(t, db, order.Order{
		OrderID: "VJ-1", CustomerName: "Priya", Email: "p@example.com",
		TotalAmount: 1030, TaxableValue: 1000, CGSTAmount: 15, SGSTAmount: 15,
		State: "Rajasthan", Status: order.StatusDelivered, PaymentMethod: order.PaymentMethodCOD,
		CreatedAt: august(10),
	})

	report, err := svc.Sales(&SalesRequest{})
	require.NoError(t, err)
	data, err := svc.SalesCSV(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Place of Supply")
	assert.Contains(t, lines[1], "VJ-1")
	assert.Contains(t, lines[1], "1000.00")
}

func TestGSTR1_GroupsByPlaceOfSupplyAndSupplyType(t *testing.T) {
	svc, db := setupReport(t)

	// Two intra-state orders aggregate into one line
	seedOrder(t, db, order.Order{
		OrderID: "VJ-1", TotalAmount: 1030, TaxableValue: 1000, CGSTAmount: 15, SGSTAmount: 15,
		State: "Rajasthan", Status: order.StatusDelivered, CreatedAt: august(5),
		Items: []order.Item{{Name: "Ring", Quantity: 2}},
	})
	seedOrder(t, db, order.Order{
		OrderID: "VJ-2", TotalAmount: 515, TaxableValue: 500, CGSTAmount: 7.5, SGSTAmount: 7.5,
		State: "Rajasthan", Status: order.StatusDelivered, CreatedAt: august(6),
		Items: []order.Item{{Name: "Jhumka", Quantity: 1}},
	})
	// Inter-state order
	seedOrder(t, db, order.Order{
		OrderID: "VJ-3", TotalAmount: 2060, TaxableValue: 2000, IGSTAmount: 60,
		State: "Maharashtra", Status: order.StatusShipped, CreatedAt: august(7),
		Items: []order.Item{{Name: "Necklace", Quantity: 1}},
	})
	// Cancelled and zero-tax orders are excluded
	seedOrder(t, db, order.Order{
		OrderID: "VJ-4", TotalAmount: 1030, TaxableValue: 1000, IGSTAmount: 30,
		State: "Delhi", Status: order.StatusCancelled, CreatedAt: august(8),
	})
	seedOrder(t, db, order.Order{
		OrderID: "VJ-5", TotalAmount: 0, TaxableValue: 0,
		State: "Delhi", Status: order.StatusDelivered, CreatedAt: august(9),
	})

	report, err := svc.GSTR1("2026-08-01", "2026-08-31")
	require.NoError(t, err)

	assert.Equal(t, "URP", report.GSTIN)
	assert.Equal(t, "082026", report.FP)
	assert.Equal(t, "GST3.1.6", report.Version)

	require.Len(t, report.B2CS, 2)

	var intra, inter *B2CSEntry
	for i := range report.B2CS {
		switch report.B2CS[i].SupplyType {
		case "INTRA":
			intra = &report.B2CS[i]
		case "INTER":
			inter = &report.B2CS[i]
		}
	}
	require.NotNil(t, intra)
	require.NotNil(t, inter)

	assert.Equal(t, "08", intra.PlaceOfSupply)
	assert.Equal(t, 1500.0, intra.TaxableValue)
	assert.Equal(t, 22.5, intra.CGSTAmount)
	assert.Equal(t, 22.5, intra.SGSTAmount)
	assert.Equal(t, 0.0, intra.IGSTAmount)

	assert.Equal(t, "27", inter.PlaceOfSupply)
	assert.Equal(t, 2000.0, inter.TaxableValue)
	assert.Equal(t, 60.0, inter.IGSTAmount)

	require.Len(t, report.HSN.HSNB2C, 1)
	hsn := report.HSN.HSNB2C[0]
	assert.Equal(t, "7117", hsn.HSNCode)
	assert.Equal(t, "PCS", hsn.UQC)
	assert.Equal(t, 4, hsn.Quantity)
	assert.Equal(t, 3500.0, hsn.TaxableValue)
	assert.Equal(t, 60.0, hsn.IGSTAmount)
	assert.Equal(t, 22.5, hsn.CGSTAmount)
	assert.Equal(t, 22.5, hsn.SGSTAmount)
	assert.Equal(t, 3.0, hsn.Rate)
}

func TestGSTR1_UnknownStateKeepsSupplyTypesApart(t *testing.T) {
	svc, db := setupReport(t)

	// Unresolvable state billed as inter-state
	seedOrder(t, db, order.Order{
		OrderID: "VJ-1", TotalAmount: 1030, TaxableValue: 1000, IGSTAmount: 30,
		State: "", Status: order.StatusDelivered, CreatedAt: august(5),
	})
	// Unresolvable state that somehow carries CGST/SGST
	seedOrder(t, db, order.Order{
		OrderID: "VJ-2", TotalAmount: 515, TaxableValue: 500, CGSTAmount: 7.5, SGSTAmount: 7.5,
		State: "Atlantis", Status: order.StatusDelivered, CreatedAt: august(6),
	})

	report, err := svc.GSTR1("2026-08-01", "2026-08-31")
	require.NoError(t, err)

	// Both resolve to POS 00 but must not merge across supply types
	require.Len(t, report.B2CS, 2)
	assert.NotEqual(t, report.B2CS[0].SupplyType, report.B2CS[1].SupplyType)
	for _, entry := range report.B2CS {
		assert.Equal(t, "00", entry.PlaceOfSupply)
	}
}

func TestGSTR1_UsesConfiguredGSTIN(t *testing.T) {
	svc, db := setupReport(t)

	_, err := svc.settings.Update(&settings.StoreSettings{
		StoreName: "Varaha Jewels",
		GSTIN:     "08CBRPC0024J1ZT",
	})
	require.NoError(t, err)
	_ = db

	report, err := svc.GSTR1("2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "08CBRPC0024J1ZT", report.GSTIN)
	assert.Empty(t, report.HSN.HSNB2C)
	assert.Empty(t, report.B2CS)
}

func TestGSTR1_RejectsInvalidDates(t *testing.T) {
	svc, _ := setupReport(t)

	_, err := svc.GSTR1("not-a-date", "2026-08-31")
	assert.Error(t, err)
	_, err = svc.GSTR1("2026-08-01", "")
	assert.Error(t, err)
}
