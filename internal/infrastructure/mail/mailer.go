// Package mail renders and delivers account emails over SMTP.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Name    string
	Subject string
	Kind    string
	HTML    string
}

// Config carries the SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender delivers messages over SMTP using gomail.
type Sender struct {
	cfg Config
}

func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers a single message. Callers treat failures as best-effort; the
// dispatcher logs and counts them without retrying.
func (s *Sender) Send(msg Message) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("smtp not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
