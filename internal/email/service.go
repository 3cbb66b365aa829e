package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host     string
	port     string
	from     string
	currency string
}

// NewService creates a new email service
func NewService(host, port, from, currency string) *Service {
	return &Service{
		host:     host,
		port:     port,
		from:     from,
		currency: currency,
	}
}

// SendOrderConfirmation sends an order confirmation email
func (s *Service) SendOrderConfirmation(to, orderID string, amount int, items []OrderItem) error {
	shortID := orderID
	if len(orderID) > 8 {
		shortID = orderID[:8]
	}
	subject := fmt.Sprintf("Order confirmation (order %s)", shortID)
	body := BuildOrderConfirmationBody(orderID, s.currency, amount, items)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
