package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// Sender delivers a rendered message to one recipient. Delivery is always
// best-effort for callers: failures are logged, never propagated into the
// operation that triggered the mail.
type Sender interface {
	Send(to, subject, body string) error
}

// Default is the process-wide sender; main swaps in the SMTP sender when
// SMTP_HOST is configured. Tests replace it with a recorder.
var Default Sender = noopSender{}

type noopSender struct{}

func (noopSender) Send(to, subject, _ string) error {
	log.Printf("mailer: SMTP not configured, dropping mail to %s (%q)", to, subject)
	return nil
}

type smtpSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewFromEnv builds a sender from SMTP_* env vars; without SMTP_HOST it
// returns the logging no-op sender.
func NewFromEnv() Sender {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		return noopSender{}
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &smtpSender{
		host: host,
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: from,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}

// WarrantyConfirmation renders the registration confirmation mail.
func WarrantyConfirmation(customerName, serialNumber string, registeredAt time.Time) (subject, body string) {
	subject = fmt.Sprintf("Warranty registered for machine %s", serialNumber)
	body = fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Your warranty for machine <b>%s</b> was registered on %s.</p>
<p>Please keep this mail for your records.</p>`,
		customerName, serialNumber, registeredAt.Format("02 Jan 2006"))
	return subject, body
}
