// Package email sends outbound notices. Delivery failures are logged and
// never fail the triggering action.
package email

import (
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"dormops-backend/config"
)

// Message is one outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Sender delivers messages.
type Sender interface {
	Send(msg Message)
}

// NewSender picks the backend from config. Unknown backends fall back to
// the console sender.
func NewSender(cfg *config.EmailConfig) Sender {
	switch cfg.Backend {
	case "sendgrid":
		return &sendgridSender{cfg: cfg}
	default:
		return &consoleSender{}
	}
}

// consoleSender logs messages instead of delivering them. Used in
// development and tests.
type consoleSender struct{}

func (s *consoleSender) Send(msg Message) {
	log.Printf("email (console): to=%s subject=%q\n%s", msg.ToAddress, msg.Subject, msg.Body)
}

// sendgridSender delivers through the SendGrid API, asynchronously.
type sendgridSender struct {
	cfg *config.EmailConfig
}

func (s *sendgridSender) Send(msg Message) {
	go func() {
		from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
		to := mail.NewEmail(msg.ToName, msg.ToAddress)
		m := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

		client := sendgrid.NewSendClient(s.cfg.SendgridKey)
		resp, err := client.Send(m)
		if err != nil {
			log.Printf("sendgrid delivery to %s failed: %v", msg.ToAddress, err)
			return
		}
		if resp.StatusCode >= 300 {
			log.Printf("sendgrid delivery to %s returned status %d: %s", msg.ToAddress, resp.StatusCode, resp.Body)
		}
	}()
}
