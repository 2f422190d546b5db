package mailer

import (
	"fmt"
	"time"

	"advertiser-chatbot-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendLeadNotification(lead *entity.Lead) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	salesEmail  string
	production  bool
}

func NewEmailService(host string, port int, username, password, senderEmail, salesEmail string, production bool) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		salesEmail:  salesEmail,
		production:  production,
	}
}

// SendLeadNotification mails a captured lead to the sales team. Outside
// production the message is printed instead of sent, so local funnels do
// not spam the real inbox.
func (s *emailService) SendLeadNotification(lead *entity.Lead) error {
	subject := fmt.Sprintf("[CHATBOT ANNONCEURS] Nouvelle demande – %s", lead.Company)
	body := leadBody(lead)

	if !s.production {
		fmt.Printf("[MAILER MOCK] %s\n%s\n", subject, body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.salesEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;"><pre>%s</pre></div>`, body))

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send lead notification for %s: %v\n", lead.Company, err)
		return err
	}

	fmt.Printf("[MAILER] Lead notification sent for %s\n", lead.Company)
	return nil
}

func leadBody(lead *entity.Lead) string {
	contact := lead.Email
	if contact == "" {
		contact = "-"
	}
	phone := lead.Phone
	if phone == "" {
		phone = "-"
	}

	return fmt.Sprintf(
		"Société : %s\nEmail : %s\nTéléphone : %s\nSecteur : %s\nBudget : %s\nBesoin : %s\nEntry path : %s\nMessage : %s\nHorodatage : %s",
		lead.Company,
		contact,
		phone,
		orDash(lead.Sector),
		orDash(lead.BudgetTier),
		orDash(lead.NeedType),
		orDash(lead.EntryPath),
		orDash(lead.Message),
		time.Now().Format(time.RFC3339),
	)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
