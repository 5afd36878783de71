// Package alert notifies operators about tripped circuit breakers and
// failed community detection runs.
package alert

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/soundprediction/graphrecall/pkg/config"
)

// Alerter defines an interface for sending alerts
type Alerter interface {
	Alert(subject, message string) error
}

// New returns an EmailAlerter when alerting is enabled and a NoOpAlerter otherwise.
func New(cfg config.AlertConfig) Alerter {
	if !cfg.Enabled || cfg.SMTPHost == "" || len(cfg.To) == 0 {
		return &NoOpAlerter{}
	}
	return NewEmailAlerter(cfg)
}

// EmailAlerter implements Alerter using SMTP
type EmailAlerter struct {
	cfg  config.AlertConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailAlerter creates a new email alerter
func NewEmailAlerter(cfg config.AlertConfig) *EmailAlerter {
	return &EmailAlerter{
		cfg:  cfg,
		send: smtp.SendMail,
	}
}

// Alert sends an email with the given subject and message
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}

	var auth smtp.Auth
	if a.cfg.Username != "" {
		auth = smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)
	if err := a.send(addr, auth, a.cfg.From, a.cfg.To, formatMessage(a.cfg.To, subject, message)); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}

func formatMessage(to []string, subject, message string) []byte {
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: [graphrecall] %s\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(to, ","), subject, message))
}

// NoOpAlerter is a dummy alerter for when alerting is disabled
type NoOpAlerter struct{}

func (n *NoOpAlerter) Alert(subject, message string) error {
	return nil
}
