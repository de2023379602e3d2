package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendRecordConfirmation(toEmail, kind, referenceNumber string) error
	SendTeamAlert(toEmail, kind, referenceNumber string, fields map[string]string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

var kindSubjects = map[string]string{
	"appointment":         "Ihre Terminanfrage",
	"quote_request":       "Ihre Offerten-Anfrage",
	"document_submission": "Ihre Dokument-Einreichung",
}

func (s *emailService) SendRecordConfirmation(toEmail, kind, referenceNumber string) error {
	subject, ok := kindSubjects[kind]
	if !ok {
		subject = "Ihre Anfrage"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s – Referenz %s", subject, referenceNumber))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Vielen Dank für Ihre Anfrage!</h2>
			<p>Wir haben Ihre Angaben erhalten und melden uns so bald wie möglich bei Ihnen.</p>
			<p>Ihre Referenznummer:</p>
			<h1 style="color: #C8102E; letter-spacing: 3px;">%s</h1>
			<p>Bitte geben Sie diese Nummer bei Rückfragen an.</p>
		</div>
	`, referenceNumber)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send confirmation to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Confirmation %s sent to %s\n", referenceNumber, toEmail)
	return nil
}

func (s *emailService) SendTeamAlert(toEmail, kind, referenceNumber string, fields map[string]string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Neue Anfrage (%s) – Referenz %s", kind, referenceNumber))

	rows := ""
	for k, v := range fields {
		rows += fmt.Sprintf("<tr><td><b>%s</b></td><td>%s</td></tr>", k, v)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Neue Kundenanfrage</h2>
			<p>Typ: %s | Referenz: %s</p>
			<table cellpadding="4">%s</table>
		</div>
	`, kind, referenceNumber, rows)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send team alert for %s: %v\n", referenceNumber, err)
		return err
	}
	return nil
}
