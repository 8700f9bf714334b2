// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/order"
)

// Service renders GST tax invoices as PDFs
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice renders the GST invoice for an order
func (s *Service) GenerateInvoice(o *order.Order, storeName, gstin string) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderID),
		InvoiceDate:   time.Now().Format("02 Jan 2006"),
		Order:         o,
		Store: StoreInfo{
			Name:      storeName,
			GSTIN:     gstin,
			HomeState: s.config.Tax.HomeState,
		},
		IsInterState: o.IGSTAmount > 0,
		Lines:        buildLines(o),
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderInvoiceHTML returns the invoice HTML without converting to PDF.
// Used as the fallback when wkhtmltopdf is not installed on the host.
func (s *Service) RenderInvoiceHTML(o *order.Order, storeName, gstin string) (string, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderID),
		InvoiceDate:   time.Now().Format("02 Jan 2006"),
		Order:         o,
		Store: StoreInfo{
			Name:      storeName,
			GSTIN:     gstin,
			HomeState: s.config.Tax.HomeState,
		},
		IsInterState: o.IGSTAmount > 0,
		Lines:        buildLines(o),
	}
	return s.generateHTML(data)
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	Order         *order.Order `json:"order"`
	Store         StoreInfo    `json:"store"`
	IsInterState  bool         `json:"is_inter_state"`
	Lines         []InvoiceLine
}

// StoreInfo represents the seller details on the invoice header
type StoreInfo struct {
	Name      string `json:"name"`
	GSTIN     string `json:"gstin"`
	HomeState string `json:"home_state"`
}

// InvoiceLine is one item row with its line total precomputed
type InvoiceLine struct {
	Name     string
	HSN      string
	Quantity int
	Price    float64
	Total    float64
}

func buildLines(o *order.Order) []InvoiceLine {
	lines := make([]InvoiceLine, 0, len(o.Items))
	for _, item := range o.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, InvoiceLine{
			Name:     item.Name,
			HSN:      o.HSNCode,
			Quantity: qty,
			Price:    item.Price,
			Total:    item.Price * float64(qty),
		})
	}
	return lines
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Tax Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .invoice-title {
            font-size: 26px;
            font-weight: bold;
            color: #8b6914;
            margin-bottom: 10px;
        }
        .section-title {
            font-size: 15px;
            font-weight: bold;
            margin-bottom: 8px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 10px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .num {
            text-align: right;
            width: 90px;
        }
        .totals {
            float: right;
            width: 320px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 7px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 110px;
        }
        .total-row {
            font-size: 17px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Store.Name}}</h1>
            <p>{{.Store.HomeState}}, India</p>
            {{if .Store.GSTIN}}<p><strong>GSTIN:</strong> {{.Store.GSTIN}}</p>{{end}}
        </div>
        <div style="text-align: right;">
            <div class="invoice-title">TAX INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderID}}</p>
        </div>
    </div>

    <div style="margin-bottom: 30px;">
        <div class="section-title">Bill To / Ship To:</div>
        <p><strong>{{.Order.CustomerName}}</strong></p>
        <p>{{.Order.Address}}</p>
        <p>{{.Order.City}}{{if .Order.State}}, {{.Order.State}}{{end}} {{.Order.Pincode}}</p>
        <p>Phone: {{.Order.Phone}}</p>
        <p>Email: {{.Order.Email}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>HSN</th>
                <th class="num">Qty</th>
                <th class="num">Rate</th>
                <th class="num">Amount</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td>{{.HSN}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">&#8377;{{printf "%.2f" .Price}}</td>
                <td class="num">&#8377;{{printf "%.2f" .Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Taxable Value:</td>
                <td class="amount">&#8377;{{printf "%.2f" .Order.TaxableValue}}</td>
            </tr>
            {{if .IsInterState}}
            <tr>
                <td class="label">IGST (3%):</td>
                <td class="amount">&#8377;{{printf "%.2f" .Order.IGSTAmount}}</td>
            </tr>
            {{else}}
            <tr>
                <td class="label">CGST (1.5%):</td>
                <td class="amount">&#8377;{{printf "%.2f" .Order.CGSTAmount}}</td>
            </tr>
            <tr>
                <td class="label">SGST (1.5%):</td>
                <td class="amount">&#8377;{{printf "%.2f" .Order.SGSTAmount}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Grand Total:</td>
                <td class="amount">&#8377;{{printf "%.2f" .Order.TotalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with {{.Store.Name}}!</p>
        <p>This is a computer generated invoice and does not require a signature.</p>
    </div>
</body>
</html>
`
