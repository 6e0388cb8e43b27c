package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends the service's transactional email over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

func (m *Mailer) SendVerificationEmail(to, token string) error {
	body := fmt.Sprintf(
		"Welcome to Staco!\n\nUse this code to verify your email address: %s\n\nThe code expires in 24 hours.",
		token,
	)
	return m.send(to, "Verify your email", body)
}

func (m *Mailer) SendInterestEmail(to, address, interestedName string) error {
	body := fmt.Sprintf(
		"%s is interested in your listing at %s.\n\nOpen the app to get in touch.",
		interestedName, address,
	)
	return m.send(to, "Someone is interested in your listing", body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
