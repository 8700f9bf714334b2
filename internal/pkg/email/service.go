// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/varahajewels/ecommerce-backend/internal/config"
)

// EmailService handles all transactional email operations
type EmailService struct {
	config    *config.Config
	templates map[string]*template.Template
	client    *http.Client
	logger    *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	service := &EmailService{
		config:    cfg,
		templates: make(map[string]*template.Template),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	if err := service.loadTemplates(); err != nil {
		logger.WithError(err).Warn("Failed to load email templates")
	}

	return service
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "smtp":
		return s.sendSMTPEmail(email)
	case "resend":
		return s.sendResendEmail(email)
	case "sendgrid":
		return s.sendSendGridEmail(email)
	case "mailersend":
		return s.sendMailerSendEmail(email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderConfirmationEmail sends the order confirmation with the GST
// breakup and the public tracking link
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	data.EmailTemplateData = s.baseData(data.UserName, data.UserEmail)

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Confirmed - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": data.OrderNumber,
			"order_total":  data.OrderTotal,
		},
	}

	return s.SendEmail(ctx, email)
}

// SendShippingUpdateEmail sends shipped / out-for-delivery / delivered
// notifications
func (s *EmailService) SendShippingUpdateEmail(ctx context.Context, data ShippingUpdateData) error {
	data.EmailTemplateData = s.baseData(data.UserName, data.UserEmail)

	htmlContent, err := s.renderTemplate("shipping_update", data)
	if err != nil {
		return fmt.Errorf("failed to render shipping update template: %w", err)
	}

	var emailType EmailType
	var subject string
	switch data.Status {
	case "out_for_delivery":
		emailType = EmailTypeOutForDelivery
		subject = fmt.Sprintf("Out for Delivery - %s", data.OrderNumber)
	case "delivered":
		emailType = EmailTypeOrderDelivered
		subject = fmt.Sprintf("Delivered - %s", data.OrderNumber)
	default:
		emailType = EmailTypeOrderShipped
		subject = fmt.Sprintf("Your Order is on its Way - %s", data.OrderNumber)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     subject,
		HTMLContent: htmlContent,
		Type:        emailType,
		Data: map[string]interface{}{
			"order_number": data.OrderNumber,
			"status":       data.Status,
			"awb_number":   data.AWBNumber,
		},
	}

	return s.SendEmail(ctx, email)
}

// SendReturnUpdateEmail sends return approval / rejection / refund emails
func (s *EmailService) SendReturnUpdateEmail(ctx context.Context, data ReturnUpdateData) error {
	data.EmailTemplateData = s.baseData(data.UserName, data.UserEmail)

	htmlContent, err := s.renderTemplate("return_update", data)
	if err != nil {
		return fmt.Errorf("failed to render return update template: %w", err)
	}

	email := &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Return Update - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeReturnUpdate,
		Data: map[string]interface{}{
			"order_number":  data.OrderNumber,
			"return_status": data.ReturnStatus,
		},
	}

	return s.SendEmail(ctx, email)
}

// SendAdminAlertEmail delivers a plain operational alert to the store admin
func (s *EmailService) SendAdminAlertEmail(ctx context.Context, subject, body string) error {
	adminEmail := s.config.External.Email.AdminEmail
	if adminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL not configured")
	}

	email := &Email{
		To:          []string{adminEmail},
		Subject:     subject,
		HTMLContent: fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(body)),
		Type:        EmailTypeAdminAlert,
	}

	return s.SendEmail(ctx, email)
}

func (s *EmailService) baseData(userName, userEmail string) EmailTemplateData {
	return GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.External.Email.BaseURL,
		s.config.External.Email.FromEmail,
		userName,
		userEmail,
	)
}

// loadTemplates loads all email templates
func (s *EmailService) loadTemplates() error {
	templateDir := s.config.External.Email.TemplateDir
	if templateDir == "" {
		templateDir = "./templates/emails"
	}

	templates := []string{
		"order_confirmation",
		"shipping_update",
		"return_update",
	}

	for _, name := range templates {
		templatePath := filepath.Join(templateDir, name+".html")
		tmpl, err := template.ParseFiles(templatePath)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"template": name,
				"error":    err.Error(),
			}).Warn("Could not load email template, using fallback")
			s.templates[name] = s.createFallbackTemplate(name)
		} else {
			s.templates[name] = tmpl
		}
	}

	return nil
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

// createFallbackTemplate creates a basic HTML template used when the
// on-disk template is missing
func (s *EmailService) createFallbackTemplate(name string) *template.Template {
	basicTemplate := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Georgia, serif; margin: 0; padding: 20px; background-color: #faf7f2;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 24px; border-radius: 8px;">
        <h1 style="color: #8b6914;">{{.SiteName}}</h1>
        <p>Hello {{.UserName}},</p>
        <p>This is a notification from {{.SiteName}} regarding your order.</p>
        <p>If you have any questions, reply to this email or write to {{.SupportEmail}}.</p>
        <p>Warm regards,<br>{{.SiteName}}</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            &copy; {{.Year}} {{.SiteName}}. All rights reserved.
        </p>
    </div>
</body>
</html>`

	tmpl, _ := template.New(name).Parse(basicTemplate)
	return tmpl
}
