// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType tags outgoing messages for provider-side analytics
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderShipped      EmailType = "order_shipped"
	EmailTypeOutForDelivery    EmailType = "out_for_delivery"
	EmailTypeOrderDelivered    EmailType = "order_delivered"
	EmailTypeReturnUpdate      EmailType = "return_update"
	EmailTypeAdminAlert        EmailType = "admin_alert"
)

// Email represents an outgoing email message
type Email struct {
	To          []string               `json:"to"`
	CC          []string               `json:"cc,omitempty"`
	BCC         []string               `json:"bcc,omitempty"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	TextContent string                 `json:"text_content,omitempty"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName     string `json:"site_name"`
	SiteURL      string `json:"site_url"`
	SupportEmail string `json:"support_email"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	Year         int    `json:"year"`
}

// OrderLine is a single item row rendered in order emails
type OrderLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderConfirmationData contains data for the order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber   string      `json:"order_number"`
	OrderDate     string      `json:"order_date"`
	Items         []OrderLine `json:"items"`
	TaxableValue  float64     `json:"taxable_value"`
	CGSTAmount    float64     `json:"cgst_amount"`
	SGSTAmount    float64     `json:"sgst_amount"`
	IGSTAmount    float64     `json:"igst_amount"`
	OrderTotal    float64     `json:"order_total"`
	PaymentMethod string      `json:"payment_method"`
	TrackingURL   string      `json:"tracking_url"`
}

// ShippingUpdateData contains data for shipped / out-for-delivery /
// delivered notifications
type ShippingUpdateData struct {
	EmailTemplateData
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	CourierName   string `json:"courier_name"`
	AWBNumber     string `json:"awb_number"`
	TrackingURL   string `json:"tracking_url"`
}

// ReturnUpdateData contains data for return status emails
type ReturnUpdateData struct {
	EmailTemplateData
	OrderNumber  string  `json:"order_number"`
	ReturnStatus string  `json:"return_status"`
	Reason       string  `json:"reason"`
	RefundAmount float64 `json:"refund_amount"`
}

// GetBaseTemplateData builds the boilerplate every template needs
func GetBaseTemplateData(siteName, siteURL, supportEmail, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:     siteName,
		SiteURL:      siteURL,
		SupportEmail: supportEmail,
		UserName:     userName,
		UserEmail:    userEmail,
		Year:         time.Now().Year(),
	}
}
