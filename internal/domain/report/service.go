// internal/domain/report/service.go
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
	"github.com/varahajewels/ecommerce-backend/internal/domain/settings"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tax"
	"gorm.io/gorm"
)

// Service builds sales and GST filing reports from order data
type Service struct {
	db       *gorm.DB
	config   *config.Config
	settings *settings.Service
	logger   *logrus.Logger
}

// NewService creates a report service
func NewService(db *gorm.DB, cfg *config.Config, settingsService *settings.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		settings: settingsService,
		logger:   logger,
	}
}

// SalesRequest filters the sales report
type SalesRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Status    string `form:"status"`
}

// SalesRow is one order in the sales report
type SalesRow struct {
	OrderID      string  `json:"order_id"`
	Date         string  `json:"date"`
	Customer     string  `json:"customer"`
	Email        string  `json:"email"`
	PaymentMode  string  `json:"payment_mode"`
	Status       string  `json:"status"`
	GrossAmount  float64 `json:"gross_amount"`
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	State        string  `json:"state"`
}

// SalesStats summarizes the sales report
type SalesStats struct {
	TotalSales  float64 `json:"total_sales"`
	TotalOrders int     `json:"total_orders"`
}

// SalesReport is the sales report payload
type SalesReport struct {
	Stats SalesStats `json:"stats"`
	Data  []SalesRow `json:"data"`
}

// Sales builds the sales report for the given filters. Invalid dates are
// ignored rather than rejected, matching the admin UI's lenient filtering.
func (s *Service) Sales(req *SalesRequest) (*SalesReport, error) {
	orders, err := s.ordersInRange(req.StartDate, req.EndDate, req.Status)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{Data: make([]SalesRow, 0, len(orders))}
	for _, o := range orders {
		report.Stats.TotalSales += o.TotalAmount
		state := o.State
		if state == "" {
			state = "N/A"
		}
		report.Data = append(report.Data, SalesRow{
			OrderID:      o.OrderID,
			Date:         o.CreatedAt.Format("2006-01-02 15:04"),
			Customer:     o.CustomerName,
			Email:        o.Email,
			PaymentMode:  string(o.PaymentMethod),
			Status:       string(o.Status),
			GrossAmount:  o.TotalAmount,
			TaxableValue: o.TaxableValue,
			CGST:         o.CGSTAmount,
			SGST:         o.SGSTAmount,
			IGST:         o.IGSTAmount,
			State:        state,
		})
	}
	report.Stats.TotalOrders = len(report.Data)
	return report, nil
}

// SalesCSV renders the sales report as a CSV export
func (s *Service) SalesCSV(report *SalesReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{
		"Order ID", "Date", "Customer Name", "Email", "Status", "Payment Mode",
		"Gross Amount", "Taxable Value", "CGST (1.5%)", "SGST (1.5%)", "IGST (3%)", "Place of Supply",
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range report.Data {
		record := []string{
			row.OrderID,
			row.Date,
			row.Customer,
			row.Email,
			row.Status,
			row.PaymentMode,
			formatAmount(row.GrossAmount),
			formatAmount(row.TaxableValue),
			formatAmount(row.CGST),
			formatAmount(row.SGST),
			formatAmount(row.IGST),
			row.State,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) ordersInRange(startDate, endDate, status string) ([]order.Order, error) {
	query := s.db.Model(&order.Order{})

	if startDate != "" {
		if start, err := time.Parse("2006-01-02", startDate); err == nil {
			query = query.Where("created_at >= ?", start)
		}
	}
	if endDate != "" {
		if end, err := time.Parse("2006-01-02", endDate); err == nil {
			query = query.Where("created_at <= ?", end.Add(24*time.Hour-time.Second))
		}
	}
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var orders []order.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// --- GSTR-1 ---

// B2CSEntry is one aggregated consumer-supply line in a GSTR-1 filing
type B2CSEntry struct {
	SupplyType    string  `json:"sply_ty"` // INTER or INTRA
	Rate          float64 `json:"rt"`
	Type          string  `json:"typ"` // OE: other than e-commerce
	PlaceOfSupply string  `json:"pos"`
	TaxableValue  float64 `json:"txval"`
	IGSTAmount    float64 `json:"iamt,omitempty"`
	CGSTAmount    float64 `json:"camt,omitempty"`
	SGSTAmount    float64 `json:"samt,omitempty"`
	CessAmount    float64 `json:"csamt"`
}

// HSNEntry is one HSN summary line in a GSTR-1 filing
type HSNEntry struct {
	Num          int     `json:"num"`
	HSNCode      string  `json:"hsn_sc"`
	UQC          string  `json:"uqc"`
	Quantity     int     `json:"qty"`
	Rate         float64 `json:"rt"`
	TaxableValue float64 `json:"txval"`
	IGSTAmount   float64 `json:"iamt"`
	SGSTAmount   float64 `json:"samt"`
	CGSTAmount   float64 `json:"camt"`
	CessAmount   float64 `json:"csamt"`
}

// HSNSection wraps the B2C HSN list
type HSNSection struct {
	HSNB2C []HSNEntry `json:"hsn_b2c"`
}

// GSTR1Report is the GSTR-1 JSON payload accepted by the filing portal
type GSTR1Report struct {
	GSTIN   string      `json:"gstin"`
	FP      string      `json:"fp"` // financial period MMYYYY
	Version string      `json:"version"`
	Hash    string      `json:"hash"`
	B2CS    []B2CSEntry `json:"b2cs"`
	HSN     HSNSection  `json:"hsn"`
}

type b2csKey struct {
	pos        string
	supplyType string
}

// GSTR1 aggregates non-cancelled orders in the period into the B2CS and HSN
// sections of a GSTR-1 filing. Orders with no taxable value are skipped.
// Aggregation is keyed by place of supply AND supply type so an unresolvable
// state ("00") never merges inter- and intra-state amounts. The single HSN
// summary line covers the default jewellery HSN; quantities come from the
// stored item lines.
func (s *Service) GSTR1(startDate, endDate string) (*GSTR1Report, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	end = end.Add(24*time.Hour - time.Second)

	var orders []order.Order
	if err := s.db.
		Where("created_at >= ? AND created_at <= ?", start, end).
		Where("status != ?", order.StatusCancelled).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	ratePercent := s.config.Tax.GSTRate * 100

	b2csMap := make(map[b2csKey]*B2CSEntry)
	var b2csOrder []b2csKey

	hsn := HSNEntry{
		Num:     1,
		HSNCode: s.config.Tax.DefaultHSNCode,
		UQC:     "PCS",
		Rate:    ratePercent,
	}

	txval := decimal.Zero
	iamt := decimal.Zero
	camt := decimal.Zero
	samt := decimal.Zero

	for _, o := range orders {
		if o.TaxableValue <= 0 {
			continue
		}

		pos := tax.PlaceOfSupplyCode(o.State)
		supplyType := "INTRA"
		if o.IGSTAmount > 0 {
			supplyType = "INTER"
		}

		key := b2csKey{pos: pos, supplyType: supplyType}
		entry, ok := b2csMap[key]
		if !ok {
			entry = &B2CSEntry{
				SupplyType:    supplyType,
				Rate:          ratePercent,
				Type:          "OE",
				PlaceOfSupply: pos,
			}
			b2csMap[key] = entry
			b2csOrder = append(b2csOrder, key)
		}
		entry.TaxableValue = round2(entry.TaxableValue + o.TaxableValue)
		if supplyType == "INTER" {
			entry.IGSTAmount = round2(entry.IGSTAmount + o.IGSTAmount)
		} else {
			entry.CGSTAmount = round2(entry.CGSTAmount + o.CGSTAmount)
			entry.SGSTAmount = round2(entry.SGSTAmount + o.SGSTAmount)
		}

		txval = txval.Add(decimal.NewFromFloat(o.TaxableValue))
		iamt = iamt.Add(decimal.NewFromFloat(o.IGSTAmount))
		camt = camt.Add(decimal.NewFromFloat(o.CGSTAmount))
		samt = samt.Add(decimal.NewFromFloat(o.SGSTAmount))
		hsn.Quantity += o.TotalQuantity()
	}

	hsn.TaxableValue = txval.Round(2).InexactFloat64()
	hsn.IGSTAmount = iamt.Round(2).InexactFloat64()
	hsn.CGSTAmount = camt.Round(2).InexactFloat64()
	hsn.SGSTAmount = samt.Round(2).InexactFloat64()

	report := &GSTR1Report{
		GSTIN:   s.settings.GSTINOrDefault(),
		FP:      start.Format("012006"),
		Version: "GST3.1.6",
		Hash:    "hash",
		B2CS:    make([]B2CSEntry, 0, len(b2csOrder)),
	}
	for _, key := range b2csOrder {
		report.B2CS = append(report.B2CS, *b2csMap[key])
	}
	if hsn.TaxableValue > 0 {
		report.HSN.HSNB2C = []HSNEntry{hsn}
	} else {
		report.HSN.HSNB2C = []HSNEntry{}
	}
	return report, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
