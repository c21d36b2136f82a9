package utils

import (
	"fmt"
	"html"
	"strings"

	"centremart/models"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers a single email
type Mailer interface {
	SendEmail(toEmail, subject, htmlContent string) error
}

// PostmarkMailer handles sending emails using Postmark
type PostmarkMailer struct {
	client *postmark.Client
	sender string
}

// NewPostmarkMailer returns a Mailer backed by Postmark
func NewPostmarkMailer(apiToken, sender string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (pm *PostmarkMailer) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := pm.client.SendEmail(postmark.Email{
		From:     pm.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendGridMailer handles sending emails using SendGrid
type SendGridMailer struct {
	client *sendgrid.Client
	sender string
}

// NewSendGridMailer returns a Mailer backed by SendGrid
func NewSendGridMailer(apiKey, sender string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (sg *SendGridMailer) SendEmail(toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("CentreMart", sg.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)
	resp, err := sg.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

// NopMailer drops every email
type NopMailer struct{}

// SendEmail does nothing
func (NopMailer) SendEmail(string, string, string) error { return nil }

// NewMailer picks the delivery backend named by provider
func NewMailer(provider, postmarkToken, sendgridKey, sender string) (Mailer, error) {
	switch strings.ToLower(provider) {
	case "postmark":
		if postmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_API_TOKEN is not set")
		}
		return NewPostmarkMailer(postmarkToken, sender), nil
	case "sendgrid":
		if sendgridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
		}
		return NewSendGridMailer(sendgridKey, sender), nil
	case "", "none":
		return NopMailer{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}

// OrderConfirmationEmail renders the message sent after checkout
func OrderConfirmationEmail(customerName string, orders []models.Order) (string, string) {
	var total float64
	var lines strings.Builder
	for _, o := range orders {
		total += o.Price
		fmt.Fprintf(&lines, "<li>%s &times; %d &mdash; Rs. %.2f</li>", html.EscapeString(o.ProductName), o.Quantity, o.Price)
	}
	subject := "Order Confirmation"
	body := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your order! We will call you before delivery.<ul>%s</ul>Total: <strong>Rs. %.2f</strong><br>Payment Method: <strong>Cash on Delivery</strong>",
		html.EscapeString(customerName),
		lines.String(),
		total,
	)
	return subject, body
}
