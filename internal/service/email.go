package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/logger"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, finalAmountCents int64) error {
	body := fmt.Sprintf("Hello %s,\n\nYour order %s has been placed.\n\nTotal to pay: %s.\n\nWe will let you know as soon as it ships.\n\nBest regards,\nThe Paraplus Team",
		name, orderNumber, formatAmount(finalAmountCents))
	err := s.send(email, fmt.Sprintf("Order confirmation - %s", orderNumber), body)
	logger.ExternalServiceResult("smtp", "SendOrderConfirmation", err, "order_number", orderNumber)
	return err
}

func (s *emailService) SendOrderStatusUpdate(ctx context.Context, email, name, orderNumber string, status domain.OrderStatus) error {
	body := fmt.Sprintf("Hello %s,\n\nYour order %s is now %s.\n\nBest regards,\nThe Paraplus Team", name, orderNumber, status)
	err := s.send(email, fmt.Sprintf("Order update - %s", orderNumber), body)
	logger.ExternalServiceResult("smtp", "SendOrderStatusUpdate", err, "order_number", orderNumber, "status", status)
	return err
}

func (s *emailService) SendRentalReservationNotification(ctx context.Context, sellerEmail, customerName, productName string, dateStart, dateEnd time.Time) error {
	body := fmt.Sprintf("Hello,\n\n%s reserved %s from %s to %s.\n\nPlease prepare the equipment for handover.\n\nBest regards,\nThe Paraplus Team",
		customerName, productName, dateStart.Format("2006-01-02"), dateEnd.Format("2006-01-02"))
	err := s.send(sellerEmail, fmt.Sprintf("New rental reservation - %s", productName), body)
	logger.ExternalServiceResult("smtp", "SendRentalReservationNotification", err, "product", productName)
	return err
}

func (s *emailService) SendRentalReturnNotification(ctx context.Context, customerEmail, productName string, depositReturned bool) error {
	body := fmt.Sprintf("Hello,\n\nYour rental of %s has been closed.", productName)
	if depositReturned {
		body += "\n\nYour deposit has been refunded."
	} else {
		body += "\n\nYour deposit refund is being processed."
	}
	body += "\n\nBest regards,\nThe Paraplus Team"
	err := s.send(customerEmail, fmt.Sprintf("Rental returned - %s", productName), body)
	logger.ExternalServiceResult("smtp", "SendRentalReturnNotification", err, "product", productName)
	return err
}

func (s *emailService) SendRentalOverdueReminder(ctx context.Context, sellerEmail, productName string, dateEnd time.Time) error {
	body := fmt.Sprintf("Hello,\n\nThe rental of %s ended on %s and has not been marked as returned.\n\nPlease contact the customer and close the rental once the equipment is back.\n\nBest regards,\nThe Paraplus Team",
		productName, dateEnd.Format("2006-01-02"))
	err := s.send(sellerEmail, fmt.Sprintf("Rental overdue - %s", productName), body)
	logger.ExternalServiceResult("smtp", "SendRentalOverdueReminder", err, "product", productName)
	return err
}

func (s *emailService) SendPaymentReceipt(ctx context.Context, email, name string, amountCents int64, currency, transactionRef string) error {
	body := fmt.Sprintf("Hello %s,\n\nWe received your payment of %s %s.", name, formatAmount(amountCents), currency)
	if transactionRef != "" {
		body += fmt.Sprintf("\n\nTransaction reference: %s", transactionRef)
	}
	body += "\n\nBest regards,\nThe Paraplus Team"
	err := s.send(email, "Payment received", body)
	logger.ExternalServiceResult("smtp", "SendPaymentReceipt", err, "transaction_ref", transactionRef)
	return err
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
