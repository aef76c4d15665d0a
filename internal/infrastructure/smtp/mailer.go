package smtp

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/hr-compass/internal/config"
)

// ErrNotConfigured is returned when the sender address or credential is missing.
var ErrNotConfigured = errors.New("smtp: sender address or credential not set")

// Mailer sends emails.
type Mailer interface {
	SendHTML(to, subject, html string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
	send     sendFunc
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}
}

func (m *mailer) SendHTML(to, subject, html string) error {
	if m.from == "" || m.password == "" {
		return ErrNotConfigured
	}
	username := m.username
	if username == "" {
		username = m.from
	}
	auth := smtp.PlainAuth("", username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return m.send(addr, auth, m.from, []string{to}, m.compose(to, subject, html))
}

func (m *mailer) compose(to, subject, html string) []byte {
	from := (&mail.Address{Name: m.fromName, Address: m.from}).String()
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return b.Bytes()
}
