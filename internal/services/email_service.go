package services

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"sokoni-backend/config"
	"sokoni-backend/internal/models"
	"sokoni-backend/internal/utils"
)

// EmailService sends transactional emails through SendGrid
type EmailService struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewEmailService creates an email service, or nil when no API key is
// configured so callers can skip emails entirely
func NewEmailService(cfg *config.Config) *EmailService {
	if cfg.SendGridAPIKey == "" {
		return nil
	}
	return &EmailService{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.EmailFromName, cfg.EmailFrom),
	}
}

// SendOrderConfirmation emails the customer a summary of the placed
// order
func (s *EmailService) SendOrderConfirmation(user *models.User, order *models.Order) error {
	to := mail.NewEmail(user.FullName(), user.Email)
	subject := fmt.Sprintf("Order confirmation %s", order.ID)

	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "  %s x%d  %s\n",
			utils.Truncate(item.ProductName, 60), item.Quantity, utils.FormatPrice(item.Subtotal()))
	}

	plain := fmt.Sprintf(
		"Hi %s,\n\nThanks for your order!\n\n%s\nTotal: %s\n\nShipping to: %s\n",
		user.FirstName, lines.String(), utils.FormatPrice(order.TotalPrice), order.ShippingAddress)

	var html strings.Builder
	html.WriteString(fmt.Sprintf("<p>Hi %s,</p><p>Thanks for your order!</p><ul>", user.FirstName))
	for _, item := range order.Items {
		fmt.Fprintf(&html, "<li>%s x%d &mdash; %s</li>",
			utils.Truncate(item.ProductName, 60), item.Quantity, utils.FormatPrice(item.Subtotal()))
	}
	fmt.Fprintf(&html, "</ul><p><strong>Total: %s</strong></p><p>Shipping to: %s</p>",
		utils.FormatPrice(order.TotalPrice), order.ShippingAddress)

	message := mail.NewSingleEmail(s.from, subject, to, plain, html.String())
	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected order confirmation: status %d", response.StatusCode)
	}
	return nil
}
