package email

import (
	"bytes"
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
		send: smtp.SendMail,
	}
}

// SendBookingConfirmation mails the customer a summary of their booking
func (s *Service) SendBookingConfirmation(b Booking) error {
	body, err := RenderBookingConfirmation(b)
	if err != nil {
		return fmt.Errorf("failed to render confirmation: %w", err)
	}
	subject := fmt.Sprintf("Konfirmasi Sewa %s (No. %s)", b.ItemName, shortID(b.ID))
	return s.Send(b.CustomerEmail, subject, body)
}

func (s *Service) Send(to, subject, body string) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.send(addr, nil, s.from, []string{to}, msg.Bytes())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
